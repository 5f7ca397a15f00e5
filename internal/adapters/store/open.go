package store

import (
	"context"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/db"
	"delivery-tracker/internal/ports"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Options selects and configures an adapter. Driver is one of the
// config.StoreDriver* values.
type Options struct {
	Driver        string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Logger        logrus.FieldLogger
	// PreparePostgres runs once on the new pool, e.g. to install the schema.
	PreparePostgres func(ctx context.Context, pool *pgxpool.Pool) error
}

// Open connects the adapter selected by opts.Driver. The returned func
// releases its resources.
func Open(ctx context.Context, opts Options) (ports.DeliveryEditor, func(), error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	switch opts.Driver {
	case config.StoreDriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("open store: DATABASE_URL is required for driver %q", opts.Driver)
		}
		pool, err := db.Open(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w: %w", domain.ErrStoreUnavailable, err)
		}
		if opts.PreparePostgres != nil {
			if err := opts.PreparePostgres(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("open store: prepare postgres: %w", err)
			}
		}
		return NewPostgresStore(pool, opts.Logger), pool.Close, nil

	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open store: ping redis %s: %w: %w", opts.RedisAddr, domain.ErrStoreUnavailable, err)
		}
		return NewRedisStore(client, opts.Logger), func() { _ = client.Close() }, nil

	case config.StoreDriverMemory:
		m := NewMemoryStore()
		return m, m.Close, nil

	default:
		return nil, nil, fmt.Errorf("open store: unknown driver %q", opts.Driver)
	}
}
