// Package bootstrap wires the process-level dependencies shared by the
// server and the operational commands.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sportsync/internal/cache"
	"sportsync/internal/config"
	"sportsync/internal/database"
	"sportsync/internal/imagehost"
	"sportsync/internal/models"
	"sportsync/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// demoSeed is the data set written by SEED_DEMO_DATA.
var demoSeed = seed.Options{NumUsers: 12, NumPosts: 40, NumMatchPosts: 10}

// Options control runtime initialization behavior.
type Options struct {
	SeedDemo bool
}

// Runtime is the set of connected dependencies.
type Runtime struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Images imagehost.ImageHost
}

// InitRuntime connects the database, Redis and the image host and
// optionally seeds an empty development database.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)

	images, err := NewImageHost(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if opts.SeedDemo {
		if err := seedDemoIfEmpty(cfg, db); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: cache.GetClient(), Images: images}, nil
}

// NewImageHost returns the S3 host when a bucket is configured and a host
// that rejects uploads otherwise.
func NewImageHost(ctx context.Context, cfg *config.Config) (imagehost.ImageHost, error) {
	if !cfg.ImageHostConfigured() {
		log.Printf("IMAGE_BUCKET not set, image uploads are disabled")
		return imagehost.Disabled{}, nil
	}
	host, err := imagehost.NewS3Host(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("image host setup failed: %w", err)
	}
	return host, nil
}

func seedDemoIfEmpty(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		log.Printf("SEED_DEMO_DATA ignored in %q", cfg.Env)
		return nil
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}
	return seed.Seed(db, demoSeed)
}
