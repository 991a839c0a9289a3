package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
)

// DefaultListingKeyPrefix namespaces product listings in Redis
const DefaultListingKeyPrefix = "storefront:listing:"

// RedisListingCache implements catalog.ListingCache with JSON values in Redis
type RedisListingCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisListingCacheOption is a functional option for configuring the cache
type RedisListingCacheOption func(*RedisListingCache)

// WithListingKeyPrefix overrides DefaultListingKeyPrefix
func WithListingKeyPrefix(prefix string) RedisListingCacheOption {
	return func(c *RedisListingCache) {
		c.keyPrefix = prefix
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisListingCacheOption {
	return func(c *RedisListingCache) {
		c.logger = logger
	}
}

// NewRedisListingCache creates a cache on a shared client. The caller keeps
// ownership of the client.
func NewRedisListingCache(client *redis.Client, opts ...RedisListingCacheOption) *RedisListingCache {
	c := &RedisListingCache{
		client:    client,
		keyPrefix: DefaultListingKeyPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a listing. A corrupt entry is deleted and reported as a miss.
func (c *RedisListingCache) Get(ctx context.Context, key string) ([]catalog.Product, bool, error) {
	cacheKey := c.keyPrefix + key

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("listing cache miss", zap.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get listing %q: %w", key, err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warn("dropping corrupt listing cache entry",
			zap.String("key", key),
			zap.Error(err))
		_ = c.client.Del(ctx, cacheKey)
		return nil, false, nil
	}
	return products, true, nil
}

// Set stores a listing for ttl. A non-positive ttl is a no-op.
func (c *RedisListingCache) Set(ctx context.Context, key string, products []catalog.Product, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %q: %w", key, err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set listing %q: %w", key, err)
	}
	return nil
}

var _ catalog.ListingCache = (*RedisListingCache)(nil)
