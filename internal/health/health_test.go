package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vladislavdragonenkov/wholesalebox/internal/health"
)

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_AllHealthy(t *testing.T) {
	h := health.NewHandler("1.2.3")
	h.Register("sessions", func(context.Context) error { return nil })
	h.RegisterOptional("cache", func(context.Context) error { return nil })

	rec := serve(h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp health.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != health.StatusHealthy {
		t.Fatalf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != "1.2.3" {
		t.Fatalf("expected version in response, got %q", resp.Version)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(resp.Checks))
	}
}

func TestHandler_CriticalFailureIsUnhealthy(t *testing.T) {
	h := health.NewHandler("dev")
	h.Register("sessions", func(context.Context) error { return errors.New("db down") })

	rec := serve(h, "/healthz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp health.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != health.StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", resp.Status)
	}
	if resp.Checks["sessions"].Message != "db down" {
		t.Fatalf("expected failure message, got %+v", resp.Checks["sessions"])
	}
}

func TestHandler_OptionalFailureIsDegraded(t *testing.T) {
	h := health.NewHandler("dev")
	h.Register("sessions", func(context.Context) error { return nil })
	h.RegisterOptional("cache", func(context.Context) error { return errors.New("redis down") })

	rec := serve(h, "/healthz")
	// Degraded — это всё ещё 200: витрина работает без кэша.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp health.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != health.StatusDegraded {
		t.Fatalf("expected degraded, got %s", resp.Status)
	}
}

func TestReadiness_IgnoresOptionalChecks(t *testing.T) {
	h := health.NewHandler("dev")
	h.Register("sessions", func(context.Context) error { return nil })
	h.RegisterOptional("cache", func(context.Context) error { return errors.New("redis down") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready despite optional failure, got %d", rec.Code)
	}
}

func TestReadiness_CriticalFailure(t *testing.T) {
	h := health.NewHandler("dev")
	h.Register("sessions", func(context.Context) error { return errors.New("db down") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	health.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
