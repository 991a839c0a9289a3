package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/config"
)

// Stores is the cache layer used by the server
type Stores struct {
	Idempotency shared.IdempotencyStore
	Listings    catalog.ListingCache
	// Redis is nil when the in-memory stores are in use
	Redis *redis.Client
}

// Close releases every store and the Redis connection
func (s *Stores) Close() error {
	var errs []error
	if s.Idempotency != nil {
		errs = append(errs, s.Idempotency.Close())
	}
	if c, ok := s.Listings.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	return errors.Join(errs...)
}

// StoreFactory creates the cache layer based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns Redis-backed stores when Redis is enabled and reachable,
// otherwise in-memory stores
func (f *StoreFactory) Create(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory cache stores")
		return f.inMemory(), nil
	}

	client, err := connect(ctx, RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory cache stores; "+
			"checkout idempotency is not shared across instances",
			zap.Error(err))
		return f.inMemory(), nil
	}

	f.logger.Info("using redis cache stores", zap.String("addr", f.redisConfig.Addr()))
	return &Stores{
		Idempotency: NewRedisIdempotencyStoreWithClient(client, DefaultIdempotencyKeyPrefix),
		Listings:    NewRedisListingCache(client, WithCacheLogger(f.logger)),
		Redis:       client,
	}, nil
}

func (f *StoreFactory) inMemory() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Listings:    NewInMemoryListingCache(),
	}
}
