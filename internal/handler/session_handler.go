package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamstaff/staffdash-api/internal/dto"
	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
	"github.com/teamstaff/staffdash-api/pkg/response"
)

type sessionService interface {
	ListByTeam(ctx context.Context, team string) ([]models.Session, error)
	Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error)
}

type rpeEntryService interface {
	Submit(ctx context.Context, req dto.SubmitRpeRequest) (*models.RpeEntry, error)
}

// SessionHandler manages the session calendar and RPE submissions.
type SessionHandler struct {
	sessions sessionService
	entries  rpeEntryService
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(sessions sessionService, entries rpeEntryService) *SessionHandler {
	return &SessionHandler{sessions: sessions, entries: entries}
}

// List godoc
// @Summary List a team's sessions
// @Tags Sessions
// @Produce json
// @Param team path string true "Team code"
// @Success 200 {object} response.Envelope
// @Router /teams/{team}/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	team, ok := requireTeam(c)
	if !ok {
		return
	}
	sessions, err := h.sessions.ListByTeam(c.Request.Context(), team)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Create godoc
// @Summary Register a training session or match
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session definition"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid session payload"))
		return
	}
	session, err := h.sessions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// SubmitRpe godoc
// @Summary Record one player's RPE submission
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRpeRequest true "RPE submission"
// @Success 201 {object} response.Envelope
// @Router /rpe-entries [post]
func (h *SessionHandler) SubmitRpe(c *gin.Context) {
	var req dto.SubmitRpeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rpe payload"))
		return
	}
	entry, err := h.entries.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}
