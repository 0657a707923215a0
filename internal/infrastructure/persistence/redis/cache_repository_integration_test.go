//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestCacheRepositoryAgainstRedis(t *testing.T) {
	addr := startRedis(t)
	client := NewClient(config.RedisConfig{PoolSize: 2, DialTimeout: 5 * time.Second}, addr)
	repo := NewCacheRepository(client, "test:", zaptest.NewLogger(t))
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "profile:1", []byte(`{"a":1}`), time.Minute))
	got, err := repo.Get(ctx, "profile:1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	raw, err := client.Get(ctx, "test:profile:1").Result()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, raw)

	n, err := repo.Increment(ctx, "quota", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.Increment(ctx, "quota", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := client.TTL(ctx, "test:quota").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, repo.Delete(ctx, "profile:1"))
	exists, err := repo.Exists(ctx, "profile:1")
	require.NoError(t, err)
	assert.False(t, exists)
}
