package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
)

// SourceAdapter describes the store reads the RPE analytics services consume.
type SourceAdapter interface {
	SessionsByTeam(ctx context.Context, team string) ([]models.Session, error)
	RosterByTeam(ctx context.Context, team string) ([]models.RosterPlayer, error)
	RpeEntries(ctx context.Context) ([]models.RpeEntry, error)
}

// Chronic load averages the trailing window of prior weekly acute loads,
// excluding the current week. Four weeks against a one-week acute window is
// the conventional acute:chronic setup in training-load monitoring.
const chronicWindowWeeks = 4

// Risk band labels derived from the ACR value.
const (
	RiskUnknown  = ""
	RiskHigh     = "high"
	RiskModerate = "moderate"
	RiskNormal   = "normal"
)

// LoadService computes per-player weekly training loads and the
// acute:chronic workload ratio.
type LoadService struct {
	src     SourceAdapter
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewLoadService constructs a load service.
func NewLoadService(src SourceAdapter, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *LoadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadService{src: src, cache: cache, metrics: metrics, logger: logger}
}

// WeeklyLoads returns each player's summed load per ISO week with acute,
// chronic and ACR columns. The boolean indicates whether the payload came
// from cache. Players without any entries do not appear; callers needing a
// roster-complete table must union against the roster themselves.
func (s *LoadService) WeeklyLoads(ctx context.Context, team string) ([]models.WeeklyPlayerLoad, bool, error) {
	cacheKey := makeRpeCacheKey("weekly-loads", team)
	var cached []models.WeeklyPlayerLoad
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, fmt.Errorf("get weekly loads cache: %w", err)
		} else if hit {
			return cached, true, nil
		}
	}

	entries, err := s.teamEntries(ctx, team)
	if err != nil {
		return nil, false, err
	}

	loads := weeklyLoads(entries, team)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, loads, 0); err != nil {
			s.logger.Warn("cache weekly loads", zap.Error(err))
		}
	}
	return loads, false, nil
}

// SessionAggregates returns total load, distinct session count and distinct
// player count per (week, session type), for the session dashboard.
func (s *LoadService) SessionAggregates(ctx context.Context, team string) ([]models.SessionTypeAggregate, bool, error) {
	cacheKey := makeRpeCacheKey("session-aggregates", team)
	var cached []models.SessionTypeAggregate
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, fmt.Errorf("get session aggregates cache: %w", err)
		} else if hit {
			return cached, true, nil
		}
	}

	entries, err := s.teamEntries(ctx, team)
	if err != nil {
		return nil, false, err
	}

	aggregates := sessionAggregates(entries)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, aggregates, 0); err != nil {
			s.logger.Warn("cache session aggregates", zap.Error(err))
		}
	}
	return aggregates, false, nil
}

func (s *LoadService) teamEntries(ctx context.Context, team string) ([]models.EffectiveEntry, error) {
	start := time.Now()
	sessions, err := s.src.SessionsByTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	roster, err := s.src.RosterByTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	raw, err := s.src.RpeEntries(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("rpe_load_sources", time.Since(start))
	}
	if err := checkRosterShape(roster); err != nil {
		return nil, err
	}

	return filterTeam(buildEffectiveEntries(sessions, roster, raw), team), nil
}

// weeklyLoads groups team entries by (player, week), sums load and folds the
// acute/chronic window per player in week order. Entries without a score or
// week are dropped here; a missing score is not zero exertion.
func weeklyLoads(entries []models.EffectiveEntry, team string) []models.WeeklyPlayerLoad {
	type key struct {
		player int64
		week   int
	}

	sums := make(map[key]*models.WeeklyPlayerLoad)
	for _, e := range entries {
		if e.RpeScore == nil || e.Week == nil {
			continue
		}
		k := key{player: e.PlayerID, week: *e.Week}
		row, ok := sums[k]
		if !ok {
			row = &models.WeeklyPlayerLoad{
				PlayerID:   e.PlayerID,
				PlayerName: e.PlayerName,
				Team:       team,
				Week:       *e.Week,
			}
			sums[k] = row
		}
		row.Load += e.Load
	}

	out := make([]models.WeeklyPlayerLoad, 0, len(sums))
	for _, row := range sums {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Week < out[j].Week
	})

	applyRollingMetrics(out)
	return out
}

// applyRollingMetrics walks each player's week-ordered series and fills
// acute, chronic and ACR. Chronic is the mean of up to the prior four weekly
// loads, shifted so the current week never feeds its own baseline; with no
// prior weeks it stays undefined rather than zero.
func applyRollingMetrics(rows []models.WeeklyPlayerLoad) {
	var window []float64
	var prevPlayer int64

	for i := range rows {
		if rows[i].PlayerID != prevPlayer {
			window = window[:0]
			prevPlayer = rows[i].PlayerID
		}

		rows[i].Acute = rows[i].Load
		if len(window) > 0 {
			var sum float64
			for _, v := range window {
				sum += v
			}
			chronic := sum / float64(len(window))
			rows[i].Chronic = &chronic
			if chronic != 0 {
				acr := round2(rows[i].Acute / chronic)
				rows[i].ACR = &acr
			}
		}
		rows[i].Risk = RiskBand(rows[i].ACR)

		window = append(window, rows[i].Load)
		if len(window) > chronicWindowWeeks {
			window = window[1:]
		}
	}
}

// RiskBand classifies an ACR value for display. The cut points are half-open
// exactly as the dashboard renders them: an undefined ratio is blank, below
// 0.75 or above 1.35 is high, the 0.75–0.85 and 1.25–1.35 shoulders are
// moderate, anything else is normal.
func RiskBand(acr *float64) string {
	if acr == nil {
		return RiskUnknown
	}
	v := *acr
	switch {
	case v < 0.75 || v > 1.35:
		return RiskHigh
	case v < 0.85 || v > 1.25:
		return RiskModerate
	default:
		return RiskNormal
	}
}

// sessionAggregates groups entries by (week, session type). Entries without a
// score still count toward session and player tallies but contribute no load.
func sessionAggregates(entries []models.EffectiveEntry) []models.SessionTypeAggregate {
	type key struct {
		week        int
		sessionType string
	}
	type bucket struct {
		totalLoad float64
		sessions  map[string]struct{}
		players   map[int64]struct{}
	}

	buckets := make(map[key]*bucket)
	for _, e := range entries {
		if e.Week == nil {
			continue
		}
		k := key{week: *e.Week, sessionType: e.SessionType}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{sessions: make(map[string]struct{}), players: make(map[int64]struct{})}
			buckets[k] = b
		}
		if e.RpeScore != nil {
			b.totalLoad += e.Load
		}
		b.sessions[e.SessionID] = struct{}{}
		b.players[e.PlayerID] = struct{}{}
	}

	out := make([]models.SessionTypeAggregate, 0, len(buckets))
	for k, b := range buckets {
		out = append(out, models.SessionTypeAggregate{
			Week:         k.week,
			SessionType:  k.sessionType,
			TotalLoad:    b.totalLoad,
			SessionCount: len(b.sessions),
			PlayerCount:  len(b.players),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].SessionType < out[j].SessionType
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func makeRpeCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("rpe")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
