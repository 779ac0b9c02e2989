package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamstaff/staffdash-api/internal/dto"
	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

type fakeSessionRepo struct {
	sessions []models.Session
	inserted []models.Session
	exists   bool
}

func (f *fakeSessionRepo) ListByTeam(context.Context, string) ([]models.Session, error) {
	return f.sessions, nil
}

func (f *fakeSessionRepo) Exists(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeSessionRepo) Insert(_ context.Context, session models.Session) error {
	f.inserted = append(f.inserted, session)
	return nil
}

func TestSessionCreateDerivesIDAndWeek(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := NewSessionService(repo, nil, nil, zap.NewNop(), []string{"U18", "U21"})

	resp, err := svc.Create(context.Background(), dto.CreateSessionRequest{
		Date:        "2025-01-15",
		Team:        "U18",
		SessionType: "T2",
		Duration:    90,
	})
	require.NoError(t, err)

	assert.Equal(t, "20250115U18", resp.SessionID)
	assert.Equal(t, 3, resp.WeekNumber)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "20250115U18", repo.inserted[0].SessionID)
}

func TestSessionCreateRejectsDuplicateDay(t *testing.T) {
	repo := &fakeSessionRepo{exists: true}
	svc := NewSessionService(repo, nil, nil, zap.NewNop(), nil)

	_, err := svc.Create(context.Background(), dto.CreateSessionRequest{
		Date:        "2025-01-15",
		Team:        "U18",
		SessionType: "M",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.inserted)
}

func TestSessionCreateValidation(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := NewSessionService(repo, nil, nil, zap.NewNop(), []string{"U18"})

	cases := []dto.CreateSessionRequest{
		{Date: "15/01/2025", Team: "U18", SessionType: "T1"},
		{Date: "2025-01-15", Team: "U23", SessionType: "T1"},
		{Date: "2025-01-15", Team: "U18", SessionType: "X9"},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, repo.inserted)
}

type fakeRpeWriter struct {
	inserted []models.RpeEntry
}

func (f *fakeRpeWriter) Insert(_ context.Context, entry models.RpeEntry) error {
	f.inserted = append(f.inserted, entry)
	return nil
}

func TestSubmitRpeStampsTimestamp(t *testing.T) {
	writer := &fakeRpeWriter{}
	sessions := &fakeSessionRepo{exists: true}
	svc := NewRpeEntryService(writer, sessions, nil, nil, zap.NewNop())
	fixed := time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	entry, err := svc.Submit(context.Background(), dto.SubmitRpeRequest{
		PlayerID:        1,
		SessionID:       "20250303U21",
		Date:            "2025-03-03",
		RpeScore:        7,
		TrainingMinutes: 45,
	})
	require.NoError(t, err)

	require.NotNil(t, entry.Timestamp)
	assert.Equal(t, fixed, *entry.Timestamp)
	require.NotNil(t, entry.RpeScore)
	assert.Equal(t, 7.0, *entry.RpeScore)
	require.NotNil(t, entry.TrainingMinutes)
	assert.Equal(t, 45, *entry.TrainingMinutes)
	require.Len(t, writer.inserted, 1)
}

func TestSubmitRpeAcceptsUnknownSession(t *testing.T) {
	writer := &fakeRpeWriter{}
	sessions := &fakeSessionRepo{exists: false}
	svc := NewRpeEntryService(writer, sessions, nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), dto.SubmitRpeRequest{
		PlayerID:  1,
		SessionID: "20990101U21",
		Date:      "2025-03-03",
		RpeScore:  5,
	})
	require.NoError(t, err)
	require.Len(t, writer.inserted, 1)
}

func TestSubmitRpeRejectsOutOfRangeScore(t *testing.T) {
	writer := &fakeRpeWriter{}
	svc := NewRpeEntryService(writer, nil, nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), dto.SubmitRpeRequest{
		PlayerID: 1,
		Date:     "2025-03-03",
		RpeScore: 11,
	})
	require.Error(t, err)
	assert.Empty(t, writer.inserted)
}

func TestSubmitRpeOmitsZeroMinutes(t *testing.T) {
	writer := &fakeRpeWriter{}
	svc := NewRpeEntryService(writer, nil, nil, nil, zap.NewNop())

	entry, err := svc.Submit(context.Background(), dto.SubmitRpeRequest{
		PlayerID: 1,
		Date:     "2025-03-03",
		RpeScore: 5,
	})
	require.NoError(t, err)
	assert.Nil(t, entry.TrainingMinutes)
}
