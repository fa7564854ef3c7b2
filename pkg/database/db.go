// Package database manages the MongoDB client for the application.
//
// Connect opens the client once at boot; Collection hands out handles to
// named collections. Single-document atomicity of MongoDB writes is the
// only consistency guarantee the application relies on.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/vastra/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the MongoDB client and verifies the connection with a ping.
// Returns an error instead of calling log.Fatal so the caller can shut
// down gracefully.
func Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDB())
	return nil
}

// Collection returns a handle to the named collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// Ping reports whether the database is currently reachable.
func Ping(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("database: not connected")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return Client.Ping(pingCtx, readpref.Primary())
}

// Disconnect closes the client. Called during graceful shutdown.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	if err := Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	Client = nil
	DB = nil
	return nil
}
