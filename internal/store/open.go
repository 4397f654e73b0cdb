package store

import (
	"context"
	"fmt"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/db"
)

// Open builds the backend named by cfg.Backend. Secrets come from the environment.
func Open(ctx context.Context, cfg config.StoreConfig) (DocumentStore, error) {
	interval := cfg.PollInterval.Duration

	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite":
		conn := db.NewSQLite(cfg.SQLite.Path)
		if err := conn.InitDB(); err != nil {
			return nil, err
		}
		return NewSQLiteStore(conn, interval), nil

	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     config.Env(config.EnvAWSAccessKeyID, ""),
			AccessKeySecret: config.Env(config.EnvAWSSecretKey, ""),
			Interval:        interval,
		})

	case "redis":
		return NewRedisStore(config.Env(config.EnvRedisURL, cfg.Redis.URL), cfg.Redis.KeyPrefix)

	case "postgres":
		return NewPostgresStore(ctx, config.Env(config.EnvDatabaseURL, cfg.Postgres.URL), cfg.Postgres.Channel)

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
