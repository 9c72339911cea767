package redis_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/storage/redis"
)

// Тесты требуют живого Redis и включаются переменной окружения:
//
//	WHOLESALEBOX_TEST_REDIS_ADDR=localhost:6379
func openTestCache(t *testing.T, ttl time.Duration) *redis.CatalogCache {
	t.Helper()

	addr := os.Getenv("WHOLESALEBOX_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WHOLESALEBOX_TEST_REDIS_ADDR is not set")
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cache, err := redis.NewCatalogCache(addr, ttl, logger.WithField("test", "redis"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCatalogCache_RoundTrip(t *testing.T) {
	cache := openTestCache(t, time.Minute)
	ctx := context.Background()

	products := []domain.Product{
		{ProductID: 1, ProductName: "Soap", Price: 20},
		{ProductID: 2, ProductName: "Rice", Price: 55.5},
	}
	cache.SetSnapshot(ctx, products)

	got, ok := cache.GetSnapshot(ctx)
	require.True(t, ok)
	require.Equal(t, products, got)
}

func TestCatalogCache_SnapshotExpires(t *testing.T) {
	cache := openTestCache(t, 100*time.Millisecond)
	ctx := context.Background()

	cache.SetSnapshot(ctx, []domain.Product{{ProductID: 1}})
	time.Sleep(200 * time.Millisecond)

	_, ok := cache.GetSnapshot(ctx)
	require.False(t, ok, "expired snapshot must read as miss")
}

func TestCatalogCache_ConnectFailure(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	// Ничего не слушает на этом порту.
	_, err := redis.NewCatalogCache("127.0.0.1:1", time.Minute, logger.WithField("test", "redis"))
	require.Error(t, err)
}
