package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

// SessionRepository reads and writes the sessions collection.
type SessionRepository struct {
	col *mongo.Collection
}

// NewSessionRepository instantiates the repository.
func NewSessionRepository(col *mongo.Collection) *SessionRepository {
	return &SessionRepository{col: col}
}

// ListByTeam returns the team's sessions ordered by date ascending. An empty
// team returns every session.
func (r *SessionRepository) ListByTeam(ctx context.Context, team string) ([]models.Session, error) {
	filter := bson.M{}
	if team != "" {
		filter["team"] = team
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, appErrors.DataAccess(err, "query sessions")
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, appErrors.DataAccess(err, "decode sessions")
	}
	return sessions, nil
}

// Exists reports whether a session with the given id is already stored.
func (r *SessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return false, appErrors.DataAccess(err, "count sessions")
	}
	return count > 0, nil
}

// Insert stores a new session document.
func (r *SessionRepository) Insert(ctx context.Context, session models.Session) error {
	if _, err := r.col.InsertOne(ctx, session); err != nil {
		return appErrors.DataAccess(err, "insert session")
	}
	return nil
}
