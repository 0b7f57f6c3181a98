package database

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect opens the Mongo client and returns the database handle. The handle
// is threaded through controller constructors; nothing here is package state.
func Connect(ctx context.Context) (*mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		return nil, fmt.Errorf("missing MONGODB_URI env var")
	}

	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	name := os.Getenv("DATABASE_NAME")
	if name == "" {
		name = "novamart"
	}
	return client.Database(name), nil
}

// EnsureIndexes creates the constraints the write paths lean on: unique
// slugs backstop the probe in utils.UniqueSlug, the unique email rejects
// duplicate accounts, and the unique cart user keeps one cart per user.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	type spec struct {
		collection string
		keys       bson.D
		opts       *options.IndexOptionsBuilder
	}
	specs := []spec{
		{"products", bson.D{{Key: "slug", Value: 1}}, unique},
		{"categories", bson.D{{Key: "slug", Value: 1}}, unique},
		{"brands", bson.D{{Key: "slug", Value: 1}}, unique},
		{"users", bson.D{{Key: "email", Value: 1}}, unique},
		{"carts", bson.D{{Key: "user", Value: 1}}, unique},
		{"refresh_tokens", bson.D{{Key: "tokenHash", Value: 1}}, nil},
		{"orders", bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}, nil},
		{"addresses", bson.D{{Key: "user", Value: 1}}, nil},
	}

	for _, s := range specs {
		model := mongo.IndexModel{Keys: s.keys, Options: s.opts}
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.collection, err)
		}
	}
	return nil
}
