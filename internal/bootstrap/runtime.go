// Package bootstrap prepares the database and cache handles shared by the
// server and operator commands.
package bootstrap

import (
	"context"
	"fmt"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/config"
	"studyoverflow/internal/database"
	"studyoverflow/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedCatalog upserts the built-in universities and courses.
	SeedCatalog bool
}

// InitRuntime connects to the database, applies the schema policy for the
// environment, initializes Redis and optionally seeds the catalogue.
// A nil Redis client means caching is disabled.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return nil, nil, fmt.Errorf("schema apply failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedCatalog {
		if err := seed.Catalog(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	return db, r, nil
}
