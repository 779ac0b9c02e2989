package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/dto"
	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

type sessionRepository interface {
	ListByTeam(ctx context.Context, team string) ([]models.Session, error)
	Exists(ctx context.Context, sessionID string) (bool, error)
	Insert(ctx context.Context, session models.Session) error
}

// SessionService manages the training and match calendar.
type SessionService struct {
	repo       sessionRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
	knownTeams []string
}

// NewSessionService constructs a session service. knownTeams limits which
// team codes may be registered; an empty list accepts any.
func NewSessionService(repo sessionRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, knownTeams []string) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SessionService{repo: repo, cache: cache, validator: validate, logger: logger, knownTeams: knownTeams}
}

// ListByTeam returns the team's sessions, date ascending.
func (s *SessionService) ListByTeam(ctx context.Context, team string) ([]models.Session, error) {
	return s.repo.ListByTeam(ctx, team)
}

// Create registers a new session. The session id is derived as YYYYMMDD plus
// the team code and never changes afterwards, so one team gets at most one
// session per calendar day.
func (s *SessionService) Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	date, err := time.Parse(isoDateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}
	if !s.teamKnown(req.Team) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown team %q", req.Team))
	}
	if !models.ValidSessionType(req.SessionType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown session type %q", req.SessionType))
	}

	sessionID := date.Format("20060102") + req.Team
	exists, err := s.repo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("session %s already registered", sessionID))
	}

	_, week := date.ISOWeek()
	session := models.Session{
		SessionID:   sessionID,
		Date:        date,
		Team:        req.Team,
		SessionType: req.SessionType,
		Duration:    req.Duration,
		WeekNumber:  week,
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		return nil, err
	}

	s.invalidateTeamCaches(ctx)
	s.logger.Info("session registered",
		zap.String("session_id", sessionID),
		zap.String("team", req.Team),
		zap.String("session_type", req.SessionType))

	return &dto.SessionResponse{
		SessionID:   session.SessionID,
		Date:        session.Date,
		Team:        session.Team,
		SessionType: session.SessionType,
		Duration:    session.Duration,
		WeekNumber:  session.WeekNumber,
	}, nil
}

func (s *SessionService) teamKnown(team string) bool {
	if len(s.knownTeams) == 0 {
		return true
	}
	for _, t := range s.knownTeams {
		if t == team {
			return true
		}
	}
	return false
}

func (s *SessionService) invalidateTeamCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "rpe:*"); err != nil {
		s.logger.Warn("invalidate rpe caches", zap.Error(err))
	}
}
