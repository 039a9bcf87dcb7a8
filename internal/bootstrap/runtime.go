// Package bootstrap wires the process-level dependencies shared by the
// server and the seed command.
package bootstrap

import (
	"context"
	"fmt"

	"socialmedia/internal/cache"
	"socialmedia/internal/config"
	"socialmedia/internal/database"
	"socialmedia/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// LoadFixtures stores the demo fixture set once connected.
	LoadFixtures bool
}

// InitRuntime connects to DB and Redis and optionally loads fixtures.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if opts.LoadFixtures {
		if _, err := seed.NewSeeder(db).Fixtures(ctx); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
	}

	return db, rdb, nil
}
