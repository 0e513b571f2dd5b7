package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Nithya675/Consultant---Tracker/internal/config"
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
)

// Mongo wraps the driver client and the application database. It is the
// repo-facing handle and also the index ensurer used at bootstrap.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect dials MongoDB and verifies the connection with a ping against
// the primary. Callers decide whether a failure is fatal.
func Connect(ctx context.Context, cfg *config.Settings, logger *slog.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info("connected to mongodb", "database", cfg.DatabaseName)
	return &Mongo{client: client, db: client.Database(cfg.DatabaseName), logger: logger}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Collection returns a handle in the application database.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// EnsureIndex creates the index described by spec unless an equivalent
// one is already present. An existing index with the same keys but
// different options is a conflict, not an "already exists".
func (m *Mongo) EnsureIndex(ctx context.Context, collection string, spec registry.IndexSpec) (registry.IndexOutcome, error) {
	coll := m.db.Collection(collection)

	existing, err := listIndexes(ctx, coll)
	if err != nil {
		return registry.IndexFailed, fmt.Errorf("list indexes on %s: %w", collection, err)
	}
	for _, idx := range existing {
		if !sameKeys(idx.Key, spec.Keys) {
			continue
		}
		if idx.Unique == spec.Unique && idx.Sparse == spec.Sparse {
			return registry.IndexExists, nil
		}
		return registry.IndexFailed, fmt.Errorf("index %s on %s exists with different options", idx.Name, collection)
	}

	if _, err := coll.Indexes().CreateOne(ctx, indexModel(spec)); err != nil {
		return registry.IndexFailed, err
	}
	m.logger.Debug("created index", "collection", collection, "index", spec.Name())
	return registry.IndexCreated, nil
}

// indexInfo is the slice of listIndexes output we care about.
type indexInfo struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
	Sparse bool   `bson:"sparse"`
}

func listIndexes(ctx context.Context, coll *mongo.Collection) ([]indexInfo, error) {
	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		// A collection that does not exist yet simply has no indexes.
		var srvErr mongo.ServerError
		if errors.As(err, &srvErr) && srvErr.HasErrorCode(26) {
			return nil, nil
		}
		return nil, err
	}
	var indexes []indexInfo
	if err := cursor.All(ctx, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

func indexModel(spec registry.IndexSpec) mongo.IndexModel {
	keys := make(bson.D, 0, len(spec.Keys))
	for _, k := range spec.Keys {
		keys = append(keys, bson.E{Key: k.Field, Value: k.Order})
	}
	opts := options.Index().SetName(spec.Name())
	if spec.Unique {
		opts.SetUnique(true)
	}
	if spec.Sparse {
		opts.SetSparse(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// sameKeys compares a server-reported key document against a spec. The
// server hands numeric orders back as int32 or float64 depending on how
// the index was created.
func sameKeys(key bson.D, specKeys []registry.IndexKey) bool {
	if len(key) != len(specKeys) {
		return false
	}
	for i, e := range key {
		if e.Key != specKeys[i].Field || keyOrder(e.Value) != specKeys[i].Order {
			return false
		}
	}
	return true
}

func keyOrder(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
