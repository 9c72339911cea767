package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/cart"
	"github.com/vladislavdragonenkov/wholesalebox/internal/catalog"
	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/export"
	"github.com/vladislavdragonenkov/wholesalebox/internal/gateway"
	"github.com/vladislavdragonenkov/wholesalebox/internal/health"
	"github.com/vladislavdragonenkov/wholesalebox/internal/metrics"
	"github.com/vladislavdragonenkov/wholesalebox/internal/orders"
	"github.com/vladislavdragonenkov/wholesalebox/internal/session"
	"github.com/vladislavdragonenkov/wholesalebox/internal/storage/memory"
	"github.com/vladislavdragonenkov/wholesalebox/internal/storage/postgres"
	"github.com/vladislavdragonenkov/wholesalebox/internal/storage/redis"
	"github.com/vladislavdragonenkov/wholesalebox/internal/version"
	"github.com/vladislavdragonenkov/wholesalebox/internal/web"
)

// Dependencies содержит собранные компоненты витрины.
type Dependencies struct {
	Gateway  *gateway.Client
	Sessions *session.Store
	Pager    *catalog.Pager
	Views    *catalog.Views
	Carts    *cart.Manager
	Orders   *orders.Service
	Exporter *export.Exporter
	Server   *web.Server
	Health   *health.Handler
	Metrics  *metrics.StorefrontMetrics
	Logger   *log.Entry

	closers []func() error
}

// NewDependencies собирает все зависимости по конфигурации.
// PostgreSQL и Redis опциональны: без DSN сессии живут в памяти,
// без Redis поиск обходится без кэша снимка.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	m := metrics.NewStorefrontMetrics()
	healthHandler := health.NewHandler(version.String())

	gw := gateway.New(cfg.BackendURL, cfg.BackendTimeout, logger.WithField("component", "gateway"), m)

	sessionRepo, closers, err := buildSessionStorage(ctx, cfg, logger, healthHandler)
	if err != nil {
		return nil, err
	}
	sessions := session.NewStore(sessionRepo, logger.WithField("component", "session"), m)

	cache, cacheCloser := buildCatalogCache(cfg, logger, healthHandler)
	if cacheCloser != nil {
		closers = append(closers, cacheCloser)
	}

	pager := catalog.NewPager(gw, cache, logger.WithField("component", "catalog"), m)
	views := catalog.NewViews(pager, cfg.PageSize)
	carts := cart.NewManager(gw, logger.WithField("component", "cart"))
	orderSvc := orders.NewService(gw, logger.WithField("component", "orders"))
	exporter := export.NewExporter(logger.WithField("component", "export"), m)

	server := web.NewServer(gw, sessions, pager, views, carts, orderSvc, exporter,
		logger.WithField("component", "web"))

	return &Dependencies{
		Gateway:  gw,
		Sessions: sessions,
		Pager:    pager,
		Views:    views,
		Carts:    carts,
		Orders:   orderSvc,
		Exporter: exporter,
		Server:   server,
		Health:   healthHandler,
		Metrics:  m,
		Logger:   logger,
		closers:  closers,
	}, nil
}

// Close освобождает внешние подключения в обратном порядке.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.WithError(err).Warn("dependency close failed")
		}
	}
}

func buildSessionStorage(ctx context.Context, cfg Config, logger *log.Entry, h *health.Handler) (domain.SessionRepository, []func() error, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("postgres dsn not set, sessions are kept in memory")
		return memory.NewSessionRepository(), nil, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open session storage: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("prepare session storage: %w", err)
	}

	h.Register("sessions", store.Ping)
	logger.Info("session storage: postgres")
	return postgres.NewSessionRepository(store, logger.WithField("component", "postgres-sessions")),
		[]func() error{store.Close}, nil
}

// buildCatalogCache подключает Redis, если он настроен. Отказ кэша —
// не фатален: витрина стартует без него.
func buildCatalogCache(cfg Config, logger *log.Entry, h *health.Handler) (domain.CatalogCache, func() error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	cache, err := redis.NewCatalogCache(cfg.RedisAddr, cfg.CatalogCacheTTL,
		logger.WithField("component", "redis-cache"))
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, continuing without catalog cache")
		return nil, nil
	}

	h.RegisterOptional("catalog-cache", cache.Ping)
	logger.WithField("addr", cfg.RedisAddr).Info("catalog cache: redis")
	return cache, cache.Close
}
