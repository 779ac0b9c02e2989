package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

// RpeRepository reads and writes the player_rpe collection.
type RpeRepository struct {
	col *mongo.Collection
}

// NewRpeRepository instantiates the repository.
func NewRpeRepository(col *mongo.Collection) *RpeRepository {
	return &RpeRepository{col: col}
}

// ListAll returns every RPE entry, unfiltered. Team scoping happens after the
// session join so quality audits can still see orphan and cross-team entries.
func (r *RpeRepository) ListAll(ctx context.Context) ([]models.RpeEntry, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, appErrors.DataAccess(err, "query rpe entries")
	}
	defer cursor.Close(ctx)

	var entries []models.RpeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, appErrors.DataAccess(err, "decode rpe entries")
	}
	return entries, nil
}

// Insert stores one submitted entry. Duplicate submissions are not rejected
// here; the quality report surfaces them instead.
func (r *RpeRepository) Insert(ctx context.Context, entry models.RpeEntry) error {
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return appErrors.DataAccess(err, "insert rpe entry")
	}
	return nil
}
