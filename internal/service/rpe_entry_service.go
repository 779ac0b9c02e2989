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

type rpeWriter interface {
	Insert(ctx context.Context, entry models.RpeEntry) error
}

type sessionChecker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// RpeEntryService records player exertion submissions.
type RpeEntryService struct {
	repo      rpeWriter
	sessions  sessionChecker
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRpeEntryService constructs an RPE entry service.
func NewRpeEntryService(repo rpeWriter, sessions sessionChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RpeEntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RpeEntryService{
		repo:      repo,
		sessions:  sessions,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores one entry stamped with the submission time. An unknown or
// absent session id is accepted and left for the quality audit to flag, so a
// late-registered session never blocks players from reporting.
func (s *RpeEntryService) Submit(ctx context.Context, req dto.SubmitRpeRequest) (*models.RpeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rpe payload")
	}

	date, err := time.Parse(isoDateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}

	if req.SessionID != "" && s.sessions != nil {
		known, err := s.sessions.Exists(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if !known {
			s.logger.Warn("rpe entry references unknown session",
				zap.String("session_id", req.SessionID),
				zap.Int64("player_id", req.PlayerID))
		}
	}

	score := req.RpeScore
	entry := models.RpeEntry{
		PlayerID:  req.PlayerID,
		SessionID: req.SessionID,
		Date:      date,
		RpeScore:  &score,
	}
	if req.TrainingMinutes > 0 {
		minutes := req.TrainingMinutes
		entry.TrainingMinutes = &minutes
	}
	ts := s.now()
	entry.Timestamp = &ts

	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "rpe:*"); err != nil {
			s.logger.Warn("invalidate rpe caches", zap.Error(err))
		}
	}
	return &entry, nil
}
