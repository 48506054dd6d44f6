package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DocumentsColl is the lightweight list/index collection.
	DocumentsColl = "documents"
	// AnalysesColl holds the full detail records.
	AnalysesColl = "analyses"
)

// Stores bundles the database handle and the two report collections.
type Stores struct {
	Client    *mongo.Client
	DB        *mongo.Database
	Documents *mongo.Collection
	Analyses  *mongo.Collection
}

// Connect dials Mongo, verifies connectivity and prepares the report
// collections with their query indexes.
func Connect(ctx context.Context, cfg MongoConfig) (*Stores, error) {
	clientOpts := options.Client().ApplyURI("mongodb://" + cfg.Host)
	if cfg.Username != "" {
		clientOpts = clientOpts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthSource,
		})
	}

	cli, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := cli.Database(cfg.DBName)
	s := &Stores{
		Client:    cli,
		DB:        database,
		Documents: database.Collection(DocumentsColl),
		Analyses:  database.Collection(AnalysesColl),
	}
	ensureIndexes(ctx, s)
	return s, nil
}

func ensureIndexes(ctx context.Context, s *Stores) {
	_, _ = s.Documents.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
	// History queries filter on the top-level id only; sorting happens in
	// application code, so no compound index is required.
	_, _ = s.Analyses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
}
