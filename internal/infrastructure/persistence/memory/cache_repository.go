// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sousa/mealplan/internal/ports/outbound"
)

// CacheItem represents a cached item; a zero ExpiresAt never expires
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

func (i CacheItem) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// CacheRepository implements outbound.CacheRepository for a single process
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCacheRepository creates a cache and starts its janitor
func NewCacheRepository(cleanupInterval time.Duration) *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go repo.cleanup(cleanupInterval)
	}
	return repo
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value; missing and expired keys yield outbound.ErrCacheMiss
func (r *CacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, ok := r.data[key]
	r.mutex.RUnlock()

	if !ok || item.expired(r.now()) {
		return nil, outbound.ErrCacheMiss
	}
	out := make([]byte, len(item.Value))
	copy(out, item.Value)
	return out, nil
}

// Set stores a copy of value; zero TTL keeps it until deleted
func (r *CacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := CacheItem{Value: make([]byte, len(value))}
	copy(item.Value, value)
	if ttl > 0 {
		item.ExpiresAt = r.now().Add(ttl)
	}

	r.mutex.Lock()
	r.data[key] = item
	r.mutex.Unlock()
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(_ context.Context, key string) error {
	r.mutex.Lock()
	delete(r.data, key)
	r.mutex.Unlock()
	return nil
}

// Exists reports whether a live key is present
func (r *CacheRepository) Exists(_ context.Context, key string) (bool, error) {
	r.mutex.RLock()
	item, ok := r.data[key]
	r.mutex.RUnlock()
	return ok && !item.expired(r.now()), nil
}

// Increment adds one to a decimal counter, starting from zero when the key is
// missing or expired, and refreshes its TTL.
func (r *CacheRepository) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	var n int64
	if item, ok := r.data[key]; ok && !item.expired(now) {
		n = parseCounter(item.Value)
	}
	n++

	item := CacheItem{Value: formatCounter(n)}
	if ttl > 0 {
		item.ExpiresAt = now.Add(ttl)
	}
	r.data[key] = item
	return n, nil
}

// Ping always succeeds
func (r *CacheRepository) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored keys, expired ones included
func (r *CacheRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.data)
}

// Close stops the janitor
func (r *CacheRepository) Close() error {
	r.once.Do(func() { close(r.stop) })
	return nil
}

func (r *CacheRepository) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictExpired()
		}
	}
}

func (r *CacheRepository) evictExpired() {
	now := r.now()
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for key, item := range r.data {
		if item.expired(now) {
			delete(r.data, key)
		}
	}
}

func parseCounter(b []byte) int64 {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formatCounter(n int64) []byte {
	return strconv.AppendInt(nil, n, 10)
}
