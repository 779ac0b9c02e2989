package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
)

func newQualityService(src *fakeSources) *QualityService {
	return NewQualityService(src, nil, nil, zap.NewNop(), nil, 1)
}

func fourSessions() []models.Session {
	return []models.Session{
		{SessionID: "20250303U21", Date: day("2025-03-03"), Team: "U21", SessionType: "T1", Duration: 60, WeekNumber: 10},
		{SessionID: "20250305U21", Date: day("2025-03-05"), Team: "U21", SessionType: "T2", Duration: 60, WeekNumber: 10},
		{SessionID: "20250310U21", Date: day("2025-03-10"), Team: "U21", SessionType: "T1", Duration: 60, WeekNumber: 11},
		{SessionID: "20250312U21", Date: day("2025-03-12"), Team: "U21", SessionType: "M", Duration: 90, WeekNumber: 11},
	}
}

func entriesForAllSessions(playerID int64) []models.RpeEntry {
	out := make([]models.RpeEntry, 0, 4)
	for _, s := range fourSessions() {
		out = append(out, models.RpeEntry{
			PlayerID:  playerID,
			SessionID: s.SessionID,
			Date:      s.Date,
			RpeScore:  fptr(5),
		})
	}
	return out
}

func TestSeasonReportComplianceWorstFirst(t *testing.T) {
	src := &fakeSources{
		sessions: fourSessions(),
		roster:   testRoster(),
		entries:  entriesForAllSessions(1),
	}
	svc := newQualityService(src)

	report, cacheHit, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	require.Len(t, report.Compliance, 2)
	worst := report.Compliance[0]
	assert.Equal(t, int64(2), worst.PlayerID)
	assert.Equal(t, 4, worst.Expected)
	assert.Equal(t, 0, worst.Actual)
	assert.Equal(t, 0.0, worst.CompliancePct)

	best := report.Compliance[1]
	assert.Equal(t, int64(1), best.PlayerID)
	assert.Equal(t, 4, best.Actual)
	assert.Equal(t, 100.0, best.CompliancePct)

	assert.Equal(t, 50.0, report.Summary.TeamCompliancePct)
	assert.Equal(t, 4, report.Summary.SessionsInSeason)
}

func TestSeasonReportExemptPlayerAlwaysCompliant(t *testing.T) {
	entries := append(entriesForAllSessions(1), models.RpeEntry{
		PlayerID: 2, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5),
	})
	src := &fakeSources{sessions: fourSessions(), roster: testRoster(), entries: entries}
	svc := newQualityService(src)

	report, _, err := svc.SeasonReport(context.Background(), "U21", []int64{2}, nil)
	require.NoError(t, err)

	var exempted models.ComplianceRecord
	for _, c := range report.Compliance {
		if c.PlayerID == 2 {
			exempted = c
		}
	}
	assert.Equal(t, 0, exempted.Expected)
	assert.Equal(t, 1, exempted.Actual)
	assert.Equal(t, 100.0, exempted.CompliancePct)

	// exempt players stay out of the team average
	assert.Equal(t, 100.0, report.Summary.TeamCompliancePct)
}

func TestSeasonReportExplicitEmptyExemptionOverridesDefaults(t *testing.T) {
	src := &fakeSources{sessions: fourSessions(), roster: testRoster(), entries: entriesForAllSessions(1)}
	svc := NewQualityService(src, nil, nil, zap.NewNop(), []int64{2}, 1)

	withDefaults, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, withDefaults.Summary.TeamCompliancePct)

	overridden, _, err := svc.SeasonReport(context.Background(), "U21", []int64{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, overridden.Summary.TeamCompliancePct)
}

func TestSeasonReportDuplicateClusters(t *testing.T) {
	entries := []models.RpeEntry{
		{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5)},
		{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(6)},
		{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(7)},
		{PlayerID: 2, SessionID: "", Date: day("2025-09-01"), RpeScore: fptr(5)},
		{PlayerID: 2, SessionID: "", Date: day("2025-09-01"), RpeScore: fptr(5)},
	}
	src := &fakeSources{sessions: fourSessions(), roster: testRoster(), entries: entries}
	svc := newQualityService(src)

	report, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Duplicates, 2)
	sessionCluster := report.Duplicates[0]
	assert.Equal(t, models.DuplicateKeySession, sessionCluster.KeyType)
	assert.Equal(t, int64(1), sessionCluster.PlayerID)
	assert.Equal(t, "20250303U21", sessionCluster.SessionID)
	assert.Equal(t, 3, sessionCluster.Count)

	dateCluster := report.Duplicates[1]
	assert.Equal(t, models.DuplicateKeyDate, dateCluster.KeyType)
	assert.Equal(t, int64(2), dateCluster.PlayerID)
	assert.Equal(t, "2025-09-01", dateCluster.Date)
	assert.Equal(t, 2, dateCluster.Count)

	// counts sum, not cluster counts
	assert.Equal(t, 5, report.Summary.Duplicates)
}

func TestSeasonReportAnomalyFlags(t *testing.T) {
	entries := []models.RpeEntry{
		// clean
		{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5), Timestamp: ts("2025-03-03T20:00:00Z")},
		// missing session id
		{PlayerID: 1, SessionID: "", Date: day("2025-03-05"), RpeScore: fptr(5)},
		// orphan reference
		{PlayerID: 2, SessionID: "20990101U21", Date: day("2025-03-05"), RpeScore: fptr(5)},
		// submitted three days after the session
		{PlayerID: 2, SessionID: "20250305U21", Date: day("2025-03-05"), RpeScore: fptr(5), Timestamp: ts("2025-03-08T10:00:00Z")},
	}
	src := &fakeSources{sessions: fourSessions(), roster: testRoster(), entries: entries}
	svc := newQualityService(src)

	report, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)
	require.Len(t, report.Anomalies, 4)

	clean := report.Anomalies[0]
	assert.False(t, clean.MissingSessionID)
	assert.False(t, clean.OrphanSessionID)
	assert.False(t, clean.TimestampOutOfWindow)

	missing := report.Anomalies[1]
	assert.True(t, missing.MissingSessionID)
	assert.False(t, missing.OrphanSessionID)

	orphan := report.Anomalies[2]
	assert.False(t, orphan.MissingSessionID)
	assert.True(t, orphan.OrphanSessionID)
	assert.False(t, orphan.TimestampOutOfWindow)

	late := report.Anomalies[3]
	assert.True(t, late.TimestampOutOfWindow)

	assert.Equal(t, 3, report.Summary.Anomalies)
}

func TestSeasonReportTimestampWindowBoundaries(t *testing.T) {
	boundary := func(stamp string) bool {
		src := &fakeSources{
			sessions: fourSessions(),
			roster:   testRoster(),
			entries: []models.RpeEntry{
				{PlayerID: 1, SessionID: "20250305U21", Date: day("2025-03-05"), RpeScore: fptr(5), Timestamp: ts(stamp)},
			},
		}
		report, _, err := newQualityService(src).SeasonReport(context.Background(), "U21", nil, nil)
		require.NoError(t, err)
		require.Len(t, report.Anomalies, 1)
		return report.Anomalies[0].TimestampOutOfWindow
	}

	// window for a 2025-03-05 session with one day of slack runs from
	// 2025-03-04 00:00:00 to 2025-03-06 23:59:59
	assert.False(t, boundary("2025-03-04T00:00:00Z"))
	assert.False(t, boundary("2025-03-06T23:59:59Z"))
	assert.True(t, boundary("2025-03-03T23:59:59Z"))
	assert.True(t, boundary("2025-03-07T00:00:00Z"))
}

func TestSeasonReportWeeklyComplianceTrend(t *testing.T) {
	entries := []models.RpeEntry{
		{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5)},
		{PlayerID: 1, SessionID: "20250305U21", Date: day("2025-03-05"), RpeScore: fptr(5)},
		{PlayerID: 2, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5)},
		{PlayerID: 1, SessionID: "20250310U21", Date: day("2025-03-10"), RpeScore: fptr(5)},
		{PlayerID: 1, SessionID: "20250312U21", Date: day("2025-03-12"), RpeScore: fptr(5)},
	}
	src := &fakeSources{sessions: fourSessions(), roster: testRoster(), entries: entries}
	svc := newQualityService(src)

	report, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)
	require.Len(t, report.WeeklyTeamCompliance, 2)

	week10 := report.WeeklyTeamCompliance[0]
	assert.Equal(t, 10, week10.Week)
	// player 1 at 2/2 and player 2 at 1/2, mean of 100 and 50
	assert.Equal(t, 75.0, week10.TeamCompliancePct)

	week11 := report.WeeklyTeamCompliance[1]
	assert.Equal(t, 11, week11.Week)
	// cumulative: player 1 at 4/4 and player 2 at 1/4, mean of 100 and 25
	assert.Equal(t, 62.5, week11.TeamCompliancePct)

	assert.Equal(t, []int{10, 11}, report.Summary.SeasonWeeks)
}

func TestSeasonReportEmptySessions(t *testing.T) {
	src := &fakeSources{
		sessions: nil,
		roster:   testRoster(),
		entries: []models.RpeEntry{
			{PlayerID: 1, SessionID: "", Date: day("2025-03-03"), RpeScore: fptr(5)},
		},
	}
	svc := newQualityService(src)

	report, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.SessionsInSeason)
	assert.Empty(t, report.WeeklyTeamCompliance)
	for _, c := range report.Compliance {
		assert.Equal(t, 100.0, c.CompliancePct)
	}
	assert.Equal(t, 100.0, report.Summary.TeamCompliancePct)
	// the orphan entry is still audited
	assert.Equal(t, 1, report.Summary.Anomalies)
}

func TestSeasonReportEmptyRosterStillAudits(t *testing.T) {
	src := &fakeSources{
		sessions: fourSessions(),
		roster:   nil,
		entries: []models.RpeEntry{
			{PlayerID: 9, SessionID: "", Date: day("2025-03-03"), RpeScore: fptr(5)},
			{PlayerID: 9, SessionID: "", Date: day("2025-03-03"), RpeScore: fptr(6)},
		},
	}
	svc := newQualityService(src)

	report, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)

	assert.Empty(t, report.Compliance)
	assert.Equal(t, 2, report.Summary.Duplicates)
	assert.Equal(t, 2, report.Summary.Anomalies)
	assert.Empty(t, report.WeeklyTeamCompliance)
}

func TestSeasonReportDeterministic(t *testing.T) {
	entries := append(entriesForAllSessions(1),
		models.RpeEntry{PlayerID: 2, SessionID: "", Date: day("2025-03-03"), RpeScore: fptr(5)},
		models.RpeEntry{PlayerID: 2, SessionID: "", Date: day("2025-03-03"), RpeScore: fptr(6)},
		models.RpeEntry{PlayerID: 2, SessionID: "20990101U21", Date: day("2025-03-05"), RpeScore: fptr(4), Timestamp: ts("2025-03-05T09:00:00Z")},
	)
	src := &fakeSources{sessions: fourSessions(), roster: testRoster(), entries: entries}
	svc := newQualityService(src)

	first, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)
	second, _, err := svc.SeasonReport(context.Background(), "U21", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnomalyWindowUnavailableWhenValueMissing(t *testing.T) {
	noTimestamp := models.EffectiveEntry{PlayerID: 1, SessionID: "s", SessionDate: func() *time.Time { d := day("2025-03-05"); return &d }(), EntryDate: day("2025-03-05")}
	records := anomalyTable([]models.EffectiveEntry{noTimestamp}, 1)
	require.Len(t, records, 1)
	assert.False(t, records[0].TimestampOutOfWindow)
}
