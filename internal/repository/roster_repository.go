package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

// RosterRepository reads the roster collection. Roster membership is managed
// elsewhere; this API only consumes it.
type RosterRepository struct {
	col *mongo.Collection
}

// NewRosterRepository instantiates the repository.
func NewRosterRepository(col *mongo.Collection) *RosterRepository {
	return &RosterRepository{col: col}
}

// ListByTeam returns the team's players ordered by last then first name. An
// empty team returns the whole roster.
func (r *RosterRepository) ListByTeam(ctx context.Context, team string) ([]models.RosterPlayer, error) {
	filter := bson.M{}
	if team != "" {
		filter["team"] = team
	}

	sort := bson.D{{Key: "player_last_name", Value: 1}, {Key: "player_first_name", Value: 1}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, appErrors.DataAccess(err, "query roster")
	}
	defer cursor.Close(ctx)

	var players []models.RosterPlayer
	if err := cursor.All(ctx, &players); err != nil {
		return nil, appErrors.DataAccess(err, "decode roster")
	}
	return players, nil
}
