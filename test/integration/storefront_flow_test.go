package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wholesalebox/internal/app"
	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// wholesaleStub — минимальный оптовый бэкенд для сквозного сценария.
type wholesaleStub struct {
	mu      sync.Mutex
	placed  [][]domain.NewOrderItem
	history []domain.Order
}

func (s *wholesaleStub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/Auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":  "jwt-token",
			"userId": "u-1",
			"name":   "Asha Traders",
			"email":  "asha@example.com",
			"role":   "Customer",
		})
	})

	mux.HandleFunc("/Products", func(w http.ResponseWriter, r *http.Request) {
		products := make([]domain.Product, 0, 25)
		for i := 1; i <= 25; i++ {
			products = append(products, domain.Product{
				ProductID:     int64(i),
				ProductName:   fmt.Sprintf("Product %d", i),
				Price:         float64(i) * 10,
				StockQuantity: 5,
				Unit:          "pcs",
			})
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		items := products
		if page > 0 && pageSize > 0 {
			start := (page - 1) * pageSize
			end := start + pageSize
			if start > len(items) {
				start = len(items)
			}
			if end > len(items) {
				end = len(items)
			}
			items = items[start:end]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":      items,
			"totalCount": len(products),
		})
	})

	mux.HandleFunc("/Orders", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var req struct {
			Items []domain.NewOrderItem `json:"items"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.placed = append(s.placed, req.Items)
		s.history = append(s.history, domain.Order{
			OrderID: int64(len(s.placed)),
			Status:  domain.OrderStatusPending,
		})
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("/Orders/my-history", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(s.history)
	})

	return mux
}

// TestCustomerJourney проходит путь покупателя целиком: логин, каталог,
// корзина, оформление, история, logout.
func TestCustomerJourney(t *testing.T) {
	stub := &wholesaleStub{}
	backend := httptest.NewServer(stub.handler())
	defer backend.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := app.DefaultConfig()
	cfg.BackendURL = backend.URL

	deps, err := app.NewDependencies(context.Background(), cfg, logger.WithField("test", "integration"))
	require.NoError(t, err)
	defer deps.Close()

	storefront := httptest.NewServer(deps.Server.Router())
	defer storefront.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	postJSON := func(path string, body any) *http.Response {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		resp, err := client.Post(storefront.URL+path, "application/json", bytes.NewReader(raw))
		require.NoError(t, err)
		return resp
	}

	// Логин открывает сессию.
	resp := postJSON("/api/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "password1",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Каталог: вторая страница из 25 товаров.
	resp, err = client.Get(storefront.URL + "/api/catalog?page=2")
	require.NoError(t, err)
	var page struct {
		Page       int              `json:"page"`
		TotalPages int              `json:"totalPages"`
		Items      []domain.Product `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	require.Equal(t, 2, page.Page)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 10)

	// Корзина: два товара, второй с количеством 3.
	resp = postJSON("/api/cart/items", map[string]any{"productId": 1, "quantity": 1})
	resp.Body.Close()
	resp = postJSON("/api/cart/items", map[string]any{"productId": 2, "quantity": 3})
	resp.Body.Close()

	// Оформление заказа.
	resp = postJSON("/api/cart/checkout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, [][]domain.NewOrderItem{{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
	}}, stub.placed)

	// История: свежий заказ в секции pending.
	resp, err = client.Get(storefront.URL + "/api/orders/history")
	require.NoError(t, err)
	var history struct {
		Pending []domain.Order `json:"pending"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	resp.Body.Close()
	require.Len(t, history.Pending, 1)

	// Logout закрывает сессию: API снова отвечает 401.
	resp = postJSON("/api/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(storefront.URL + "/api/cart")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
