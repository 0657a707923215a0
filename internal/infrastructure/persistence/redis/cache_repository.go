// Package redis provides the Redis-backed cache repository
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"go.uber.org/zap"
)

// NewClient creates a Redis client from configuration
func NewClient(cfg config.RedisConfig, addr string) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           []string{addr},
		Password:        cfg.Password,
		DB:              cfg.Database,
		MaxRetries:      cfg.MaxRetries,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: 5 * time.Minute,
		PoolTimeout:     10 * time.Second,
	})
}

// CacheRepository implements outbound.CacheRepository on Redis. Keys are
// namespaced with a prefix and calls are guarded by a circuit breaker.
type CacheRepository struct {
	client  redis.UniversalClient
	prefix  string
	breaker *CircuitBreaker
	logger  *zap.Logger
}

// NewCacheRepository creates a new Redis cache repository
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client:  client,
		prefix:  prefix,
		breaker: NewCircuitBreaker(5, 30*time.Second),
		logger:  logger.Named("redis-cache"),
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

func (r *CacheRepository) key(k string) string {
	return r.prefix + k
}

// do runs fn behind the circuit breaker; a cache miss is not a failure
func (r *CacheRepository) do(op, key string, fn func() error) error {
	if !r.breaker.AllowRequest() {
		return ErrCircuitOpen
	}
	err := fn()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.breaker.RecordFailure()
		r.logger.Error("Redis command failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis %s: %w", op, err)
	}
	r.breaker.RecordSuccess()
	return err
}

// Get retrieves a value; a missing key yields outbound.ErrCacheMiss
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.do("get", key, func() (err error) {
		data, err = r.client.Get(ctx, r.key(key)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	return data, err
}

// Set stores a value with TTL; zero TTL keeps the key forever
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.do("set", key, func() error {
		return r.client.Set(ctx, r.key(key), value, ttl).Err()
	})
}

// Delete removes a key
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	return r.do("del", key, func() error {
		return r.client.Del(ctx, r.key(key)).Err()
	})
}

// Exists reports whether the key is present
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := r.do("exists", key, func() (err error) {
		n, err = r.client.Exists(ctx, r.key(key)).Result()
		return err
	})
	return n > 0, err
}

// Increment atomically increments a counter and refreshes its expiry
func (r *CacheRepository) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	err := r.do("incr", key, func() error {
		pipe := r.client.TxPipeline()
		incr = pipe.Incr(ctx, r.key(key))
		if ttl > 0 {
			pipe.Expire(ctx, r.key(key), ttl)
		}
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Ping tests the Redis connection
func (r *CacheRepository) Ping(ctx context.Context) error {
	return r.do("ping", "", func() error {
		return r.client.Ping(ctx).Err()
	})
}

// Close closes the underlying client
func (r *CacheRepository) Close() error {
	return r.client.Close()
}
