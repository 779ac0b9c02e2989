package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamstaff/staffdash-api/internal/middleware"
	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
	"github.com/teamstaff/staffdash-api/pkg/response"
)

type qualityService interface {
	SeasonReport(ctx context.Context, team string, exemptIDs []int64, windowDays *int) (models.QualityReport, bool, error)
}

// QualityHandler exposes the season data-quality report.
type QualityHandler struct {
	service qualityService
}

// NewQualityHandler constructs the handler.
func NewQualityHandler(service qualityService) *QualityHandler {
	return &QualityHandler{service: service}
}

// SeasonReport godoc
// @Summary Season data-quality report for a team
// @Tags Quality
// @Produce json
// @Param team path string true "Team code"
// @Param exempt_ids query string false "Comma-separated player ids exempt from compliance. Pass empty to exempt nobody."
// @Param window_days query int false "Timestamp plausibility window in days"
// @Success 200 {object} response.Envelope
// @Router /teams/{team}/quality/report [get]
func (h *QualityHandler) SeasonReport(c *gin.Context) {
	team, ok := requireTeam(c)
	if !ok {
		return
	}

	exemptIDs, err := parseExemptIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var windowDays *int
	if raw := strings.TrimSpace(c.Query("window_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "window_days must be a non-negative integer"))
			return
		}
		windowDays = &days
	}

	start := time.Now()
	report, cacheHit, err := h.service.SeasonReport(c.Request.Context(), team, exemptIDs, windowDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	respondWithMeta(c, report, start)
}

// parseExemptIDs distinguishes an absent exempt_ids parameter (use configured
// defaults, returns nil) from an explicitly empty one (exempt nobody, returns
// an empty slice).
func parseExemptIDs(c *gin.Context) ([]int64, error) {
	raw, present := c.GetQuery("exempt_ids")
	if !present {
		return nil, nil
	}
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "exempt_ids must be a comma-separated list of player ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
