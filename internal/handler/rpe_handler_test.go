package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamstaff/staffdash-api/internal/models"
)

type fakeLoadSrv struct {
	loads      []models.WeeklyPlayerLoad
	loadsHit   bool
	loadsErr   error
	aggregates []models.SessionTypeAggregate
	lastTeam   string
}

func (f *fakeLoadSrv) WeeklyLoads(_ context.Context, team string) ([]models.WeeklyPlayerLoad, bool, error) {
	f.lastTeam = team
	return f.loads, f.loadsHit, f.loadsErr
}

func (f *fakeLoadSrv) SessionAggregates(_ context.Context, team string) ([]models.SessionTypeAggregate, bool, error) {
	f.lastTeam = team
	return f.aggregates, false, nil
}

type fakeOverviewSrv struct {
	overview models.DailyOverview
	hit      bool
	err      error
}

func (f *fakeOverviewSrv) DailyOverview(context.Context, string) (models.DailyOverview, bool, error) {
	return f.overview, f.hit, f.err
}

type listEnvelope struct {
	Data []map[string]interface{} `json:"data"`
	Meta map[string]interface{}   `json:"meta"`
}

func newGetContext(t *testing.T, target, team string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if team != "" {
		c.Params = gin.Params{{Key: "team", Value: team}}
	}
	return c, rec
}

func TestRpeHandlerWeeklyLoads(t *testing.T) {
	service := &fakeLoadSrv{
		loads: []models.WeeklyPlayerLoad{
			{PlayerID: 1, PlayerName: "Berg, Jonas", Team: "U21", Week: 10, Load: 615, Acute: 615},
		},
		loadsHit: true,
	}
	handler := NewRpeHandler(service, &fakeOverviewSrv{})

	c, rec := newGetContext(t, "/teams/U21/rpe/weekly-loads", "U21")
	handler.WeeklyLoads(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "U21", service.lastTeam)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Berg, Jonas", envelope.Data[0]["player_name"])
	assert.Equal(t, float64(10), envelope.Data[0]["week"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestRpeHandlerWeeklyLoadsRequiresTeam(t *testing.T) {
	handler := NewRpeHandler(&fakeLoadSrv{}, &fakeOverviewSrv{})

	c, rec := newGetContext(t, "/teams//rpe/weekly-loads", "")
	handler.WeeklyLoads(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRpeHandlerWeeklyLoadsServiceError(t *testing.T) {
	handler := NewRpeHandler(&fakeLoadSrv{loadsErr: errors.New("mongo down")}, &fakeOverviewSrv{})

	c, rec := newGetContext(t, "/teams/U21/rpe/weekly-loads", "U21")
	handler.WeeklyLoads(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRpeHandlerSessionAggregates(t *testing.T) {
	service := &fakeLoadSrv{
		aggregates: []models.SessionTypeAggregate{
			{Week: 10, SessionType: "T1", TotalLoad: 660, SessionCount: 2, PlayerCount: 2},
		},
	}
	handler := NewRpeHandler(service, &fakeOverviewSrv{})

	c, rec := newGetContext(t, "/teams/U21/rpe/session-aggregates", "U21")
	handler.SessionAggregates(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "T1", envelope.Data[0]["session_type"])
	assert.Equal(t, false, envelope.Meta["cache_hit"])
}

func TestRpeHandlerDailyOverview(t *testing.T) {
	handler := NewRpeHandler(&fakeLoadSrv{}, &fakeOverviewSrv{
		overview: models.DailyOverview{
			Dates: []string{"2025-03-03"},
			Rows: []models.DailyOverviewRow{
				{PlayerID: 1, PlayerName: "Berg, Jonas", Cells: map[string]string{"2025-03-03": "5 | 60"}},
			},
		},
		hit: true,
	})

	c, rec := newGetContext(t, "/teams/U21/rpe/daily-overview", "U21")
	handler.DailyOverview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.DailyOverview   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"2025-03-03"}, envelope.Data.Dates)
	require.Len(t, envelope.Data.Rows, 1)
	assert.Equal(t, "5 | 60", envelope.Data.Rows[0].Cells["2025-03-03"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}
