package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
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

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
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

// EnsureIndexes creates the indexes both repositories rely on. Unique indexes
// on users are the source of truth for username and email uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db, 0).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := NewPoolRepository(db, 0).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("pool indexes: %w", err)
	}
	return nil
}

func opTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

// Pinger adapts a MongoDB client to a readiness probe.
type Pinger struct {
	client *mongo.Client
}

func NewPinger(client *mongo.Client) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}
