package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/models"
)

type rosterRepository interface {
	ListByTeam(ctx context.Context, team string) ([]models.RosterPlayer, error)
}

// RosterService exposes the externally managed roster.
type RosterService struct {
	repo   rosterRepository
	logger *zap.Logger
}

// NewRosterService constructs a roster service.
func NewRosterService(repo rosterRepository, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, logger: logger}
}

// ListByTeam returns the team's players, optionally restricted to active
// ones. Ordering follows the store's last-then-first-name sort.
func (s *RosterService) ListByTeam(ctx context.Context, team string, activeOnly bool) ([]models.RosterPlayer, error) {
	players, err := s.repo.ListByTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return players, nil
	}
	active := make([]models.RosterPlayer, 0, len(players))
	for _, p := range players {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}
