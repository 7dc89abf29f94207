package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openfield/auth-system/internal/core/model"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the storage indexes requested by every registered
// entity type. Collections are named after the entity types. Run once at
// startup, after the definition pipeline and before serving.
func EnsureIndexes(ctx context.Context, db *mongo.Database, registry *model.Registry) error {
	for _, name := range registry.Names() {
		et, _ := registry.Get(name)
		for _, idx := range et.Indexes() {
			keys := bson.D{}
			for _, field := range idx.Fields {
				keys = append(keys, bson.E{Key: field, Value: 1})
			}
			opts := options.Index().SetName(idx.Name)
			if idx.Unique {
				opts.SetUnique(true)
			}
			_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
			if err != nil {
				return fmt.Errorf("ensure index %s.%s: %w", name, idx.Name, err)
			}
		}
	}
	return nil
}
