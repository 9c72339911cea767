package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

const snapshotKey = "wholesalebox:catalog:snapshot"

// CatalogCache хранит снимок полного каталога в Redis с коротким TTL.
// Кэш — оптимизация: любая ошибка Redis трактуется как cache miss.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Entry
}

// NewCatalogCache подключается к Redis и проверяет доступность.
func NewCatalogCache(addr string, ttl time.Duration, logger *log.Entry) (*CatalogCache, error) {
	if logger == nil {
		logger = log.WithField("component", "redis-cache")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &CatalogCache{client: client, ttl: ttl, logger: logger}, nil
}

// GetSnapshot возвращает закэшированный каталог, если он ещё жив.
func (c *CatalogCache) GetSnapshot(ctx context.Context) ([]domain.Product, bool) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("catalog snapshot read failed")
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.logger.WithError(err).Warn("malformed catalog snapshot, dropping")
		_ = c.client.Del(ctx, snapshotKey).Err()
		return nil, false
	}
	return products, true
}

// SetSnapshot сохраняет каталог с TTL; ошибки только логируются.
func (c *CatalogCache) SetSnapshot(ctx context.Context, products []domain.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		c.logger.WithError(err).Warn("encode catalog snapshot failed")
		return
	}
	if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("catalog snapshot write failed")
	}
}

// Ping проверяет доступность Redis (для health-чеков).
func (c *CatalogCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает подключение.
func (c *CatalogCache) Close() error {
	return c.client.Close()
}

var _ domain.CatalogCache = (*CatalogCache)(nil)
