package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamstaff/staffdash-api/internal/models"
	"github.com/teamstaff/staffdash-api/pkg/response"
)

type rosterService interface {
	ListByTeam(ctx context.Context, team string, activeOnly bool) ([]models.RosterPlayer, error)
}

// RosterHandler exposes roster reads.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(service rosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

// List godoc
// @Summary List a team's roster
// @Tags Roster
// @Produce json
// @Param team path string true "Team code"
// @Param active query bool false "Only active players"
// @Success 200 {object} response.Envelope
// @Router /teams/{team}/roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	team, ok := requireTeam(c)
	if !ok {
		return
	}
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	players, err := h.service.ListByTeam(c.Request.Context(), team, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, players, nil)
}
