package model

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evetools/ratwatch/internal/config"
)

const setupTimeout = 30 * time.Second

var collections = map[string][]string{
	HistoryCollection: {"system_id", "recorded_at"},
}

// Setup creates the history collection and its indexes. Safe to run on every
// start; index creation is idempotent.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	clientOps := options.Client().ApplyURI(cfg.Address)
	if cfg.Username != "" {
		clientOps.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	database := client.Database(cfg.DbName)

	for collection, indexFields := range collections {
		if err := createCollection(ctx, database, collection); err != nil {
			return err
		}

		models := make([]mongo.IndexModel, 0, len(indexFields))
		for _, field := range indexFields {
			models = append(models, mongo.IndexModel{
				Keys: bson.D{{Key: field, Value: 1}},
			})
		}
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collection string) error {
	err := database.CreateCollection(ctx, collection)
	if err == nil {
		return nil
	}

	// NamespaceExists: the collection survived a previous run.
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 48 {
		return nil
	}
	return err
}
