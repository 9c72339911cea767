package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix — префикс переменных окружения: WHOLESALEBOX_HTTP_ADDR и т.д.
const envPrefix = "wholesalebox"

// Config описывает настройки запуска витрины.
type Config struct {
	// HTTPAddr — адрес основного HTTP-сервера витрины.
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// OpsAddr — адрес служебного сервера: метрики и health-чеки.
	OpsAddr string `envconfig:"OPS_ADDR" default:":9090"`

	// BackendURL — корень REST API оптового бэкенда.
	BackendURL string `envconfig:"BACKEND_URL" default:"http://localhost:5000/api"`
	// BackendTimeout — таймаут одного запроса к бэкенду.
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`

	// PostgresDSN — хранилище сессий. Пустая строка включает in-memory
	// режим: сессии живут до перезапуска процесса.
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	// RedisAddr — кэш снимка каталога. Пустая строка отключает кэш:
	// каждый поиск обходит бэкенд заново.
	RedisAddr string `envconfig:"REDIS_ADDR"`
	// CatalogCacheTTL — время жизни снимка каталога в кэше.
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"30s"`

	// PageSize — размер витринной страницы каталога.
	PageSize int `envconfig:"PAGE_SIZE" default:"10"`

	// LogLevel — уровень логирования logrus.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig читает конфигурацию из окружения с префиксом WHOLESALEBOX_.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig возвращает конфигурацию по умолчанию (dev-режим:
// in-memory сессии, без кэша).
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		OpsAddr:         ":9090",
		BackendURL:      "http://localhost:5000/api",
		BackendTimeout:  15 * time.Second,
		CatalogCacheTTL: 30 * time.Second,
		PageSize:        10,
		LogLevel:        "info",
	}
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend url must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %s", c.BackendTimeout)
	}
	return nil
}
