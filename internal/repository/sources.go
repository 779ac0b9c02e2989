package repository

import (
	"context"

	"github.com/teamstaff/staffdash-api/internal/models"
)

// Sources bundles the three read contracts the analytics services consume.
type Sources struct {
	Sessions *SessionRepository
	Roster   *RosterRepository
	Rpe      *RpeRepository
}

// NewSources groups the repositories into one source adapter.
func NewSources(sessions *SessionRepository, roster *RosterRepository, rpe *RpeRepository) *Sources {
	return &Sources{Sessions: sessions, Roster: roster, Rpe: rpe}
}

// SessionsByTeam fetches the team's sessions.
func (s *Sources) SessionsByTeam(ctx context.Context, team string) ([]models.Session, error) {
	return s.Sessions.ListByTeam(ctx, team)
}

// RosterByTeam fetches the team's roster.
func (s *Sources) RosterByTeam(ctx context.Context, team string) ([]models.RosterPlayer, error) {
	return s.Roster.ListByTeam(ctx, team)
}

// RpeEntries fetches every RPE entry.
func (s *Sources) RpeEntries(ctx context.Context) ([]models.RpeEntry, error) {
	return s.Rpe.ListAll(ctx)
}
