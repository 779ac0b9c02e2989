package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
)

// OverviewService builds the daily RPE submission grid shown on the staff
// dashboard: one row per roster player, one column per entry date.
type OverviewService struct {
	src     SourceAdapter
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewOverviewService constructs an overview service.
func NewOverviewService(src SourceAdapter, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverviewService{src: src, cache: cache, metrics: metrics, logger: logger}
}

// DailyOverview returns the roster-complete pivot of latest submissions per
// player per day. An empty roster yields an empty grid.
func (s *OverviewService) DailyOverview(ctx context.Context, team string) (models.DailyOverview, bool, error) {
	cacheKey := makeRpeCacheKey("daily-overview", team)
	var cached models.DailyOverview
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return models.DailyOverview{}, false, fmt.Errorf("get daily overview cache: %w", err)
		} else if hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	sessions, err := s.src.SessionsByTeam(ctx, team)
	if err != nil {
		return models.DailyOverview{}, false, err
	}
	roster, err := s.src.RosterByTeam(ctx, team)
	if err != nil {
		return models.DailyOverview{}, false, err
	}
	raw, err := s.src.RpeEntries(ctx)
	if err != nil {
		return models.DailyOverview{}, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("rpe_daily_overview_sources", time.Since(start))
	}
	if err := checkRosterShape(roster); err != nil {
		return models.DailyOverview{}, false, err
	}

	overview := buildDailyOverview(sessions, roster, raw)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, 0); err != nil {
			s.logger.Warn("cache daily overview", zap.Error(err))
		}
	}
	return overview, false, nil
}

// buildDailyOverview pivots submissions into a player × date grid. Entries
// are scoped by roster membership, not by the joined session's team: a
// rostered player's orphan or cross-team submission still fills its cell,
// with minutes 0 where no session duration resolves.
func buildDailyOverview(sessions []models.Session, roster []models.RosterPlayer, raw []models.RpeEntry) models.DailyOverview {
	if len(roster) == 0 {
		return models.DailyOverview{Dates: []string{}, Rows: []models.DailyOverviewRow{}}
	}

	rostered := make(map[int64]struct{}, len(roster))
	for _, p := range roster {
		rostered[p.PlayerID] = struct{}{}
	}
	all := buildEffectiveEntries(sessions, roster, raw)
	scoped := make([]models.EffectiveEntry, 0, len(all))
	for _, e := range all {
		if _, ok := rostered[e.PlayerID]; ok {
			scoped = append(scoped, e)
		}
	}
	entries := latestPerPlayerDay(scoped)

	dateSet := make(map[string]struct{})
	type cellKey struct {
		player int64
		date   string
	}
	cells := make(map[cellKey]string)
	for _, e := range entries {
		date := e.EntryDate.Format(isoDateLayout)
		dateSet[date] = struct{}{}
		cells[cellKey{player: e.PlayerID, date: date}] = overviewCell(e)
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]models.DailyOverviewRow, 0, len(roster))
	for _, p := range roster {
		if !p.Active {
			continue
		}
		row := models.DailyOverviewRow{
			PlayerID:   p.PlayerID,
			PlayerName: p.DisplayName(),
			Cells:      make(map[string]string, len(dates)),
		}
		for _, d := range dates {
			if cell, ok := cells[cellKey{player: p.PlayerID, date: d}]; ok {
				row.Cells[d] = cell
			} else {
				row.Cells[d] = models.DailyOverviewCellEmpty
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlayerName != rows[j].PlayerName {
			return rows[i].PlayerName < rows[j].PlayerName
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	return models.DailyOverview{Dates: dates, Rows: rows}
}

// overviewCell renders "score | minutes" for a submission, with the blank
// marker substituting for either missing half.
func overviewCell(e models.EffectiveEntry) string {
	score := models.DailyOverviewCellEmpty
	if e.RpeScore != nil {
		score = strconv.FormatFloat(*e.RpeScore, 'g', -1, 64)
	}
	minutes := strconv.Itoa(e.EffectiveMinutes)
	return score + " | " + minutes
}
