package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamstaff/staffdash-api/internal/middleware"
	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
	"github.com/teamstaff/staffdash-api/pkg/response"
)

type loadService interface {
	WeeklyLoads(ctx context.Context, team string) ([]models.WeeklyPlayerLoad, bool, error)
	SessionAggregates(ctx context.Context, team string) ([]models.SessionTypeAggregate, bool, error)
}

type overviewService interface {
	DailyOverview(ctx context.Context, team string) (models.DailyOverview, bool, error)
}

// RpeHandler wires the training-load analytics to HTTP endpoints.
type RpeHandler struct {
	loads    loadService
	overview overviewService
}

// NewRpeHandler constructs the handler.
func NewRpeHandler(loads loadService, overview overviewService) *RpeHandler {
	return &RpeHandler{loads: loads, overview: overview}
}

// WeeklyLoads godoc
// @Summary Weekly training load with acute:chronic ratio per player
// @Tags RPE
// @Produce json
// @Param team path string true "Team code"
// @Success 200 {object} response.Envelope
// @Router /teams/{team}/rpe/weekly-loads [get]
func (h *RpeHandler) WeeklyLoads(c *gin.Context) {
	team, ok := requireTeam(c)
	if !ok {
		return
	}
	start := time.Now()
	loads, cacheHit, err := h.loads.WeeklyLoads(c.Request.Context(), team)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	respondWithMeta(c, loads, start)
}

// SessionAggregates godoc
// @Summary Load totals per week and session type
// @Tags RPE
// @Produce json
// @Param team path string true "Team code"
// @Success 200 {object} response.Envelope
// @Router /teams/{team}/rpe/session-aggregates [get]
func (h *RpeHandler) SessionAggregates(c *gin.Context) {
	team, ok := requireTeam(c)
	if !ok {
		return
	}
	start := time.Now()
	aggregates, cacheHit, err := h.loads.SessionAggregates(c.Request.Context(), team)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	respondWithMeta(c, aggregates, start)
}

// DailyOverview godoc
// @Summary Daily RPE submission grid per roster player
// @Tags RPE
// @Produce json
// @Param team path string true "Team code"
// @Success 200 {object} response.Envelope
// @Router /teams/{team}/rpe/daily-overview [get]
func (h *RpeHandler) DailyOverview(c *gin.Context) {
	team, ok := requireTeam(c)
	if !ok {
		return
	}
	start := time.Now()
	overview, cacheHit, err := h.overview.DailyOverview(c.Request.Context(), team)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	respondWithMeta(c, overview, start)
}

func requireTeam(c *gin.Context) (string, bool) {
	team := strings.TrimSpace(c.Param("team"))
	if team == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "team is required"))
		return "", false
	}
	return team, true
}

func respondWithMeta(c *gin.Context, payload interface{}, start time.Time) {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, payload, nil, meta)
}
