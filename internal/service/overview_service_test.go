package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

func TestDailyOverviewPivot(t *testing.T) {
	src := &fakeSources{
		sessions: testSessions(),
		roster:   testRoster(),
		entries: []models.RpeEntry{
			{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5), Timestamp: ts("2025-03-03T19:00:00Z")},
			{PlayerID: 1, SessionID: "20250305U21", Date: day("2025-03-05"), RpeScore: fptr(7), TrainingMinutes: iptr(45), Timestamp: ts("2025-03-05T19:00:00Z")},
			{PlayerID: 2, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(6), Timestamp: ts("2025-03-03T19:30:00Z")},
		},
	}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, cacheHit, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, []string{"2025-03-03", "2025-03-05"}, overview.Dates)
	require.Len(t, overview.Rows, 2)

	berg := overview.Rows[0]
	assert.Equal(t, "Berg, Jonas", berg.PlayerName)
	assert.Equal(t, "5 | 60", berg.Cells["2025-03-03"])
	assert.Equal(t, "7 | 45", berg.Cells["2025-03-05"])

	kovac := overview.Rows[1]
	assert.Equal(t, "Kovac, Milan", kovac.PlayerName)
	assert.Equal(t, "6 | 60", kovac.Cells["2025-03-03"])
	assert.Equal(t, models.DailyOverviewCellEmpty, kovac.Cells["2025-03-05"])
}

func TestDailyOverviewLatestSubmissionWins(t *testing.T) {
	src := &fakeSources{
		sessions: testSessions(),
		roster:   testRoster(),
		entries: []models.RpeEntry{
			{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(4), Timestamp: ts("2025-03-03T18:00:00Z")},
			{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(8), Timestamp: ts("2025-03-03T21:00:00Z")},
		},
	}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, _, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	require.Len(t, overview.Rows, 2)
	assert.Equal(t, "8 | 60", overview.Rows[0].Cells["2025-03-03"])
}

func TestDailyOverviewEmptyRoster(t *testing.T) {
	src := &fakeSources{
		sessions: testSessions(),
		roster:   nil,
		entries: []models.RpeEntry{
			{PlayerID: 1, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(5)},
		},
	}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, _, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	assert.Empty(t, overview.Dates)
	assert.Empty(t, overview.Rows)
}

func TestDailyOverviewRosterWithoutEntries(t *testing.T) {
	src := &fakeSources{sessions: testSessions(), roster: testRoster()}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, _, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	assert.Empty(t, overview.Dates)
	require.Len(t, overview.Rows, 2)
	assert.Empty(t, overview.Rows[0].Cells)
}

func TestDailyOverviewSkipsInactivePlayers(t *testing.T) {
	roster := append(testRoster(), models.RosterPlayer{
		PlayerID: 3, Team: "U21", FirstName: "Old", LastName: "Hand", Active: false,
	})
	src := &fakeSources{sessions: testSessions(), roster: roster}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, _, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	require.Len(t, overview.Rows, 2)
	for _, row := range overview.Rows {
		assert.NotEqual(t, int64(3), row.PlayerID)
	}
}

func TestDailyOverviewShowsOrphanSubmissions(t *testing.T) {
	src := &fakeSources{
		sessions: testSessions(),
		roster:   testRoster(),
		entries: []models.RpeEntry{
			{PlayerID: 1, SessionID: "", Date: day("2025-09-01"), RpeScore: fptr(5), Timestamp: ts("2025-09-01T19:00:00Z")},
			{PlayerID: 2, SessionID: "20250310U18", Date: day("2025-03-10"), RpeScore: fptr(6), Timestamp: ts("2025-03-10T20:00:00Z")},
		},
	}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, _, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	require.Contains(t, overview.Dates, "2025-09-01")
	require.Contains(t, overview.Dates, "2025-03-10")

	berg := overview.Rows[0]
	assert.Equal(t, "5 | 0", berg.Cells["2025-09-01"])
	assert.Equal(t, models.DailyOverviewCellEmpty, berg.Cells["2025-03-10"])

	kovac := overview.Rows[1]
	assert.Equal(t, "6 | 0", kovac.Cells["2025-03-10"])
	assert.Equal(t, models.DailyOverviewCellEmpty, kovac.Cells["2025-09-01"])
}

func TestDailyOverviewExcludesUnrosteredPlayers(t *testing.T) {
	src := &fakeSources{
		sessions: testSessions(),
		roster:   testRoster(),
		entries: []models.RpeEntry{
			{PlayerID: 99, SessionID: "20250303U21", Date: day("2025-03-03"), RpeScore: fptr(7), Timestamp: ts("2025-03-03T19:00:00Z")},
		},
	}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	overview, _, err := svc.DailyOverview(context.Background(), "U21")
	require.NoError(t, err)
	assert.Empty(t, overview.Dates)
	require.Len(t, overview.Rows, 2)
	for _, row := range overview.Rows {
		assert.NotEqual(t, int64(99), row.PlayerID)
	}
}

func TestDailyOverviewRejectsIdlessRoster(t *testing.T) {
	src := &fakeSources{
		sessions: testSessions(),
		roster: []models.RosterPlayer{
			{Team: "U21", FirstName: "No", LastName: "ID", Active: true},
		},
	}
	svc := NewOverviewService(src, nil, nil, zap.NewNop())

	_, _, err := svc.DailyOverview(context.Background(), "U21")
	require.Error(t, err)
	assert.True(t, appErrors.IsComputation(err))
}

func TestOverviewCellMissingScore(t *testing.T) {
	cell := overviewCell(models.EffectiveEntry{EffectiveMinutes: 60})
	assert.Equal(t, models.DailyOverviewCellEmpty+" | 60", cell)
}
