package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
)

// QualityService audits the season's RPE data for a team: submission
// compliance, duplicate entries, referential anomalies and the cumulative
// weekly compliance trend.
type QualityService struct {
	src               SourceAdapter
	cache             *CacheService
	metrics           *MetricsService
	logger            *zap.Logger
	defaultExemptIDs  []int64
	defaultWindowDays int
}

// NewQualityService constructs a quality service. defaultExemptIDs and
// defaultWindowDays apply when a report request leaves them unset.
func NewQualityService(src SourceAdapter, cache *CacheService, metrics *MetricsService, logger *zap.Logger, defaultExemptIDs []int64, defaultWindowDays int) *QualityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultWindowDays <= 0 {
		defaultWindowDays = 1
	}
	return &QualityService{
		src:               src,
		cache:             cache,
		metrics:           metrics,
		logger:            logger,
		defaultExemptIDs:  defaultExemptIDs,
		defaultWindowDays: defaultWindowDays,
	}
}

// SeasonReport computes the full data-quality bundle for a team. A nil
// exemptIDs falls back to the configured defaults; an explicit empty slice
// exempts nobody. A nil windowDays uses the configured timestamp window.
func (s *QualityService) SeasonReport(ctx context.Context, team string, exemptIDs []int64, windowDays *int) (models.QualityReport, bool, error) {
	exempt := s.defaultExemptIDs
	if exemptIDs != nil {
		exempt = exemptIDs
	}
	window := s.defaultWindowDays
	if windowDays != nil && *windowDays > 0 {
		window = *windowDays
	}

	cacheKey := makeRpeCacheKey("quality-report", team, exemptKeyPart(exempt), strconv.Itoa(window))
	var cached models.QualityReport
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return models.QualityReport{}, false, fmt.Errorf("get quality report cache: %w", err)
		} else if hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	sessions, err := s.src.SessionsByTeam(ctx, team)
	if err != nil {
		return models.QualityReport{}, false, err
	}
	roster, err := s.src.RosterByTeam(ctx, team)
	if err != nil {
		return models.QualityReport{}, false, err
	}
	raw, err := s.src.RpeEntries(ctx)
	if err != nil {
		return models.QualityReport{}, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("rpe_quality_sources", time.Since(start))
	}
	if err := checkRosterShape(roster); err != nil {
		return models.QualityReport{}, false, err
	}

	report := buildQualityReport(sessions, roster, raw, team, exempt, window)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, 0); err != nil {
			s.logger.Warn("cache quality report", zap.Error(err))
		}
	}
	return report, false, nil
}

func buildQualityReport(sessions []models.Session, roster []models.RosterPlayer, raw []models.RpeEntry, team string, exemptIDs []int64, windowDays int) models.QualityReport {
	exempt := make(map[int64]struct{}, len(exemptIDs))
	for _, id := range exemptIDs {
		exempt[id] = struct{}{}
	}

	// Entries are joined but not team-filtered here. Duplicates and anomalies
	// audit every entry; only compliance restricts to the team's sessions.
	all := buildEffectiveEntries(sessions, roster, raw)
	teamEntries := filterTeam(all, team)

	compliance := complianceTable(roster, teamEntries, len(sessions), exempt)
	duplicates := duplicateClusters(all)
	anomalies := anomalyTable(all, windowDays)
	trend := weeklyComplianceTrend(sessions, roster, teamEntries, exempt)

	nDuplicates := 0
	for _, d := range duplicates {
		nDuplicates += d.Count
	}
	nAnomalies := 0
	for _, a := range anomalies {
		if a.Flagged() {
			nAnomalies++
		}
	}

	seasonWeeks := make([]int, 0, len(trend))
	for _, p := range trend {
		seasonWeeks = append(seasonWeeks, p.Week)
	}

	return models.QualityReport{
		Team:                 team,
		Compliance:           compliance,
		Duplicates:           duplicates,
		Anomalies:            anomalies,
		WeeklyTeamCompliance: trend,
		Summary: models.QualitySummary{
			TeamCompliancePct: round1(teamCompliance(compliance)),
			SessionsInSeason:  len(sessions),
			Duplicates:        nDuplicates,
			Anomalies:         nAnomalies,
			SeasonWeeks:       seasonWeeks,
		},
	}
}

// complianceTable builds the per-player season compliance rows, worst first.
// An empty roster yields an empty table.
func complianceTable(roster []models.RosterPlayer, teamEntries []models.EffectiveEntry, nSessions int, exempt map[int64]struct{}) []models.ComplianceRecord {
	actuals := make(map[int64]int, len(roster))
	for _, e := range teamEntries {
		actuals[e.PlayerID]++
	}

	seen := make(map[int64]struct{}, len(roster))
	out := make([]models.ComplianceRecord, 0, len(roster))
	for _, p := range roster {
		if _, dup := seen[p.PlayerID]; dup {
			continue
		}
		seen[p.PlayerID] = struct{}{}

		expected := nSessions
		if _, ok := exempt[p.PlayerID]; ok {
			expected = 0
		}
		out = append(out, models.ComplianceRecord{
			PlayerID:      p.PlayerID,
			PlayerName:    p.DisplayName(),
			Expected:      expected,
			Actual:        actuals[p.PlayerID],
			CompliancePct: compliancePct(expected, actuals[p.PlayerID]),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CompliancePct != out[j].CompliancePct {
			return out[i].CompliancePct < out[j].CompliancePct
		}
		if out[i].Actual != out[j].Actual {
			return out[i].Actual < out[j].Actual
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// compliancePct applies the compliance formula. A player with nothing
// expected is fully compliant no matter how many entries they filed, so
// exemptions never read as a deficit.
func compliancePct(expected, actual int) float64 {
	if expected > 0 {
		return round1(100 * float64(actual) / float64(expected))
	}
	return 100
}

// teamCompliance averages player compliance over players with a non-zero
// expectation. With nobody expected the team defaults to fully compliant.
func teamCompliance(compliance []models.ComplianceRecord) float64 {
	var sum float64
	var n int
	for _, c := range compliance {
		if c.Expected > 0 {
			sum += c.CompliancePct
			n++
		}
	}
	if n == 0 {
		return 100
	}
	return sum / float64(n)
}

// duplicateClusters finds repeated submissions across all entries. Entries
// with a session id group on (player, session); entries without one fall back
// to (player, entry date).
func duplicateClusters(entries []models.EffectiveEntry) []models.DuplicateCluster {
	type key struct {
		player int64
		ref    string
	}
	bySession := make(map[key]int)
	byDate := make(map[key]int)
	for _, e := range entries {
		if e.SessionID != "" {
			bySession[key{player: e.PlayerID, ref: e.SessionID}]++
		} else {
			byDate[key{player: e.PlayerID, ref: e.EntryDate.Format(isoDateLayout)}]++
		}
	}

	var out []models.DuplicateCluster
	for k, count := range bySession {
		if count > 1 {
			out = append(out, models.DuplicateCluster{
				KeyType:   models.DuplicateKeySession,
				PlayerID:  k.player,
				SessionID: k.ref,
				Count:     count,
			})
		}
	}
	for k, count := range byDate {
		if count > 1 {
			out = append(out, models.DuplicateCluster{
				KeyType:  models.DuplicateKeyDate,
				PlayerID: k.player,
				Date:     k.ref,
				Count:    count,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].KeyType != out[j].KeyType {
			return out[i].KeyType > out[j].KeyType
		}
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		if out[i].SessionID != out[j].SessionID {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// anomalyTable flags every entry. The timestamp window spans from midnight
// windowDays before the session date to end-of-day windowDays after it; when
// the entry has no joined session date or no timestamp the window check
// cannot run and stays false.
func anomalyTable(entries []models.EffectiveEntry, windowDays int) []models.AnomalyRecord {
	out := make([]models.AnomalyRecord, 0, len(entries))
	for _, e := range entries {
		rec := models.AnomalyRecord{
			PlayerID:  e.PlayerID,
			SessionID: e.SessionID,
			Timestamp: e.Timestamp,
		}
		date := e.EntryDate
		rec.Date = &date

		rec.MissingSessionID = e.SessionID == ""
		rec.OrphanSessionID = !rec.MissingSessionID && e.SessionDate == nil
		if e.SessionDate != nil && e.Timestamp != nil {
			day := e.SessionDate.Truncate(24 * time.Hour)
			lo := day.AddDate(0, 0, -windowDays)
			hi := day.AddDate(0, 0, windowDays).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			ts := *e.Timestamp
			rec.TimestampOutOfWindow = ts.Before(lo) || ts.After(hi)
		}
		out = append(out, rec)
	}
	return out
}

// weeklyComplianceTrend computes the cumulative team compliance per session
// week. Expected counts accumulate from sessions per week, actual counts from
// each player's team-joined entries, and each week averages the per-player
// cumulative compliance over players with anything expected yet.
func weeklyComplianceTrend(sessions []models.Session, roster []models.RosterPlayer, teamEntries []models.EffectiveEntry, exempt map[int64]struct{}) []models.WeeklyCompliancePoint {
	if len(sessions) == 0 || len(roster) == 0 {
		return []models.WeeklyCompliancePoint{}
	}

	sessionsPerWeek := make(map[int]int, len(sessions))
	for _, s := range sessions {
		sessionsPerWeek[sessionWeek(s)]++
	}
	weeks := make([]int, 0, len(sessionsPerWeek))
	for w := range sessionsPerWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	type key struct {
		player int64
		week   int
	}
	actualPerWeek := make(map[key]int, len(teamEntries))
	for _, e := range teamEntries {
		if e.Week == nil {
			continue
		}
		actualPerWeek[key{player: e.PlayerID, week: *e.Week}]++
	}

	players := make([]int64, 0, len(roster))
	seen := make(map[int64]struct{}, len(roster))
	for _, p := range roster {
		if _, dup := seen[p.PlayerID]; dup {
			continue
		}
		seen[p.PlayerID] = struct{}{}
		players = append(players, p.PlayerID)
	}

	out := make([]models.WeeklyCompliancePoint, 0, len(weeks))
	cumExpected := 0
	cumActual := make(map[int64]int, len(players))
	for _, w := range weeks {
		cumExpected += sessionsPerWeek[w]

		var sum float64
		var n int
		for _, id := range players {
			cumActual[id] += actualPerWeek[key{player: id, week: w}]
			expected := cumExpected
			if _, ok := exempt[id]; ok {
				expected = 0
			}
			if expected > 0 {
				sum += compliancePct(expected, cumActual[id])
				n++
			}
		}
		pct := 100.0
		if n > 0 {
			pct = sum / float64(n)
		}
		out = append(out, models.WeeklyCompliancePoint{Week: w, TeamCompliancePct: pct})
	}
	return out
}

func exemptKeyPart(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
