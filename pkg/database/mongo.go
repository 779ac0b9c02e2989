package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/teamstaff/staffdash-api/pkg/config"
)

// Mongo bundles the client with the named collections the dashboard reads.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database

	Sessions  *mongo.Collection
	Roster    *mongo.Collection
	PlayerRPE *mongo.Collection
}

// NewMongo connects to the document store and resolves the collections.
func NewMongo(cfg config.MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(cfg.Database)

	return &Mongo{
		Client:    client,
		Database:  db,
		Sessions:  db.Collection("sessions"),
		Roster:    db.Collection("roster"),
		PlayerRPE: db.Collection("player_rpe"),
	}, nil
}

// Ping verifies the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
