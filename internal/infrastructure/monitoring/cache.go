package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/sousa/mealplan/internal/ports/outbound"
)

// InstrumentedCache counts cache operations by result
type InstrumentedCache struct {
	inner   outbound.CacheRepository
	metrics *MetricsCollector
}

var _ outbound.CacheRepository = (*InstrumentedCache)(nil)

// InstrumentCache wraps a cache so every call is counted
func InstrumentCache(inner outbound.CacheRepository, metrics *MetricsCollector) *InstrumentedCache {
	return &InstrumentedCache{inner: inner, metrics: metrics}
}

func (c *InstrumentedCache) record(op string, err error) {
	switch {
	case err == nil:
		c.metrics.CacheOperation(op, "ok")
	case errors.Is(err, outbound.ErrCacheMiss):
		c.metrics.CacheOperation(op, "miss")
	default:
		c.metrics.CacheOperation(op, "error")
	}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.inner.Get(ctx, key)
	if err == nil {
		c.metrics.CacheOperation("get", "hit")
		return v, nil
	}
	c.record("get", err)
	return v, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, value, ttl)
	c.record("set", err)
	return err
}

func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	err := c.inner.Delete(ctx, key)
	c.record("delete", err)
	return err
}

func (c *InstrumentedCache) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := c.inner.Exists(ctx, key)
	c.record("exists", err)
	return ok, err
}

func (c *InstrumentedCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := c.inner.Increment(ctx, key, ttl)
	c.record("increment", err)
	return n, err
}

func (c *InstrumentedCache) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}
