package app_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/wholesalebox/internal/app"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := app.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.OpsAddr != ":9090" {
		t.Fatalf("unexpected addresses: %+v", cfg)
	}
	if cfg.BackendTimeout != 15*time.Second {
		t.Fatalf("unexpected backend timeout: %s", cfg.BackendTimeout)
	}
	if cfg.PageSize != 10 {
		t.Fatalf("unexpected page size: %d", cfg.PageSize)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("WHOLESALEBOX_HTTP_ADDR", ":7070")
	t.Setenv("WHOLESALEBOX_BACKEND_URL", "https://wholesale.example.com/api")
	t.Setenv("WHOLESALEBOX_REDIS_ADDR", "redis:6379")
	t.Setenv("WHOLESALEBOX_PAGE_SIZE", "25")

	cfg, err := app.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if cfg.BackendURL != "https://wholesale.example.com/api" {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.PageSize != 25 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*app.Config)
	}{
		{"empty backend url", func(c *app.Config) { c.BackendURL = "" }},
		{"zero page size", func(c *app.Config) { c.PageSize = 0 }},
		{"negative timeout", func(c *app.Config) { c.BackendTimeout = -time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := app.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := app.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
}
