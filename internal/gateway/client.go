package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// BackendError — отказ оптового бэкенда: не-2xx ответ с сообщением.
// Message берётся из тела ответа, если бэкенд его прислал, иначе —
// generic-фраза конкретного действия.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Message)
}

// AsBackendError возвращает *BackendError, если ошибка им является.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Client — HTTP-клиент REST-поверхности оптового бэкенда.
// Токен не хранится в клиенте: он передаётся явно в каждый вызов,
// чтобы не заводить ambient-синглтон сессии.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Entry
	metrics *metrics.StorefrontMetrics
}

// New создаёт клиент бэкенда. baseURL — корень API без завершающего слэша.
func New(baseURL string, timeout time.Duration, logger *log.Entry, m *metrics.StorefrontMetrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "gateway")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: m,
	}
}

// call описывает один запрос к бэкенду.
type call struct {
	// op — метка для логов и метрик, например "GET /Products".
	op          string
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
	// fallback показывается пользователю, если бэкенд не прислал сообщение.
	fallback string
}

// do выполняет запрос и возвращает тело и заголовки ответа.
// Сетевые ошибки и не-2xx ответы различаются: первые оборачиваются,
// вторые превращаются в *BackendError с пользовательским сообщением.
func (c *Client) do(ctx context.Context, req call) ([]byte, http.Header, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, req.body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	started := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		c.metrics.RecordBackendRequest(req.op, "network_error", time.Since(started))
		c.logger.WithError(err).WithField("op", req.op).Error("backend request failed")
		return nil, nil, fmt.Errorf("%s: %w", req.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordBackendRequest(req.op, "network_error", time.Since(started))
		return nil, nil, fmt.Errorf("%s: read response: %w", req.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordBackendRequest(req.op, "backend_error", time.Since(started))
		message := extractMessage(body)
		if message == "" {
			message = req.fallback
		}
		c.logger.WithFields(log.Fields{
			"op":     req.op,
			"status": resp.StatusCode,
		}).Warn("backend rejected request")
		return nil, resp.Header, &BackendError{StatusCode: resp.StatusCode, Message: message}
	}

	c.metrics.RecordBackendRequest(req.op, "ok", time.Since(started))
	return body, resp.Header, nil
}

// doJSON выполняет запрос и декодирует JSON-ответ в out (если out != nil).
func (c *Client) doJSON(ctx context.Context, req call, out any) error {
	body, _, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.op, err)
	}
	return nil
}

func jsonBody(v any) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return strings.NewReader(string(raw)), nil
}

// extractMessage достаёт человекочитаемое сообщение из тела ошибки:
// либо {"message": "..."} , либо просто строка в теле.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var wrapped struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Message != "" {
		return wrapped.Message
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") && len(trimmed) <= 200 {
		return trimmed
	}
	return ""
}
