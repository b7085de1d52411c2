package database

import (
	"context"
	"fmt"

	"orianna-agent/internal/common/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OpenMongoCollection connects and returns the configured preferences collection
// together with the owning client, which the caller disconnects.
func OpenMongoCollection(ctx context.Context, cfg config.MongoConfig) (*mongo.Collection, *mongo.Client, error) {
	timeout := config.GetDuration(cfg.Timeout)
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName("orianna-agent").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	return client.Database(cfg.Database).Collection(cfg.Collection), client, nil
}
