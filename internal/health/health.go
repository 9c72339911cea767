package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — состояние компонента витрины.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// checkTimeout ограничивает каждую проверку: зависший бэкенд не должен
// вешать сам health-эндпоинт.
const checkTimeout = 3 * time.Second

// CheckFunc проверяет один компонент (хранилище сессий, кэш, бэкенд).
type CheckFunc func(ctx context.Context) error

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — ответ /healthz.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// registered — проверка с признаком критичности. Некритичные компоненты
// (кэш каталога) при отказе дают degraded, а не unhealthy: витрина
// продолжает работать без них.
type registered struct {
	fn       CheckFunc
	critical bool
}

// Handler выполняет зарегистрированные проверки по запросу.
type Handler struct {
	mu        sync.RWMutex
	checks    map[string]registered
	version   string
	startTime time.Time
}

// NewHandler создаёт health handler.
func NewHandler(version string) *Handler {
	return &Handler{
		checks:    make(map[string]registered),
		version:   version,
		startTime: time.Now(),
	}
}

// Register добавляет критичную проверку: её отказ делает витрину unhealthy.
func (h *Handler) Register(name string, fn CheckFunc) {
	h.register(name, fn, true)
}

// RegisterOptional добавляет некритичную проверку: отказ даёт degraded.
func (h *Handler) RegisterOptional(name string, fn CheckFunc) {
	h.register(name, fn, false)
}

func (h *Handler) register(name string, fn CheckFunc, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = registered{fn: fn, critical: critical}
}

func (h *Handler) snapshot() map[string]registered {
	h.mu.RLock()
	defer h.mu.RUnlock()
	checks := make(map[string]registered, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	return checks
}

func runCheck(ctx context.Context, name string, c registered) Check {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	started := time.Now()
	err := c.fn(checkCtx)
	duration := time.Since(started)

	if err != nil {
		status := StatusDegraded
		if c.critical {
			status = StatusUnhealthy
		}
		return Check{Name: name, Status: status, Message: err.Error(), DurationMs: duration.Milliseconds()}
	}
	return Check{Name: name, Status: StatusHealthy, DurationMs: duration.Milliseconds()}
}

// ServeHTTP — подробный /healthz со статусом каждого компонента.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	overall := StatusHealthy

	for name, c := range h.snapshot() {
		check := runCheck(r.Context(), name, c)
		checks[name] = check

		switch check.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Response{
		Status:        overall,
		Timestamp:     time.Now(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// ReadinessHandler — /readyz: только критичные проверки, без тела.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	for name, c := range h.snapshot() {
		if !c.critical {
			continue
		}
		if check := runCheck(r.Context(), name, c); check.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LivenessHandler — /livez: процесс жив.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
