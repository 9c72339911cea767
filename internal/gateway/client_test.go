package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/gateway"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", "gateway")
}

func newClient(t *testing.T, handler http.Handler) (*gateway.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.New(srv.URL, 0, testLogger(), nil), srv
}

func TestLogin_Success(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/Auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "asha@example.com" {
			t.Errorf("unexpected email %q", body["email"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":  "jwt-token",
			"userId": "u-1",
			"name":   "Asha",
			"email":  "asha@example.com",
			"role":   "Customer",
		})
	}))

	identity, token, err := client.Login(context.Background(), "asha@example.com", "passw0rd")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "jwt-token" {
		t.Fatalf("expected token jwt-token, got %q", token)
	}
	if identity.Role != domain.RoleCustomer || identity.Name != "Asha" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLogin_WeakPasswordNeverReachesBackend(t *testing.T) {
	called := false
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, _, err := client.Login(context.Background(), "a@b.c", "short")
	if !errors.Is(err, domain.ErrPasswordWeak) {
		t.Fatalf("expected ErrPasswordWeak, got %v", err)
	}
	if called {
		t.Fatal("validation error must not produce a network call")
	}
}

func TestLogin_BackendMessagePassedThrough(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Account is locked"})
	}))

	_, _, err := client.Login(context.Background(), "a@b.c", "passw0rd")
	be, ok := gateway.AsBackendError(err)
	if !ok {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Message != "Account is locked" {
		t.Fatalf("expected backend message, got %q", be.Message)
	}
}

func TestLogin_FallbackMessageWhenBodyEmpty(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, _, err := client.Login(context.Background(), "a@b.c", "passw0rd")
	be, ok := gateway.AsBackendError(err)
	if !ok {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Message != "Invalid email or password" {
		t.Fatalf("expected fallback message, got %q", be.Message)
	}
}

func TestListProducts_SendsBearerToken(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("pageSize") != "10" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":      []map[string]any{{"productId": 7, "productName": "Soap", "price": 20.0}},
			"totalCount": 25,
		})
	}))

	page, err := client.ListProducts(context.Background(), "tok-1", 2, 10)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if page.TotalCount != 25 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestCreateProduct_MultipartForm(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("ProductName"); got != "Soap" {
			t.Errorf("expected ProductName Soap, got %q", got)
		}
		if got := r.FormValue("Price"); got != "20.5" {
			t.Errorf("expected Price 20.5, got %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Header.Get("Content-Type") != "image/png" {
			t.Errorf("expected image/png part, got %q", header.Header.Get("Content-Type"))
		}
		data, _ := io.ReadAll(file)
		if string(data) != "png-bytes" {
			t.Errorf("unexpected file payload %q", data)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	draft := domain.ProductDraft{ProductName: "Soap", Description: "Bar", Price: 20.5, StockQuantity: 5, Unit: "pcs"}
	img := &gateway.ImageUpload{
		FileName:    "soap.png",
		ContentType: "image/png",
		Size:        9,
		Reader:      strings.NewReader("png-bytes"),
	}
	if err := client.CreateProduct(context.Background(), "tok", draft, img); err != nil {
		t.Fatalf("create product: %v", err)
	}
}

func TestCreateProduct_ImageURLFallbackField(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("ImageUrl"); got != "https://cdn.example/soap.png" {
			t.Errorf("expected ImageUrl field, got %q", got)
		}
		if _, _, err := r.FormFile("image"); err == nil {
			t.Error("no file part expected")
		}
	}))

	draft := domain.ProductDraft{ProductName: "Soap", Unit: "pcs", ImageURL: "https://cdn.example/soap.png"}
	if err := client.CreateProduct(context.Background(), "tok", draft, nil); err != nil {
		t.Fatalf("create product: %v", err)
	}
}

func TestCreateProduct_RejectsBadImageBeforeNetwork(t *testing.T) {
	called := false
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	draft := domain.ProductDraft{ProductName: "Soap"}
	img := &gateway.ImageUpload{FileName: "x.gif", ContentType: "image/gif", Size: 10, Reader: strings.NewReader("gif")}
	err := client.CreateProduct(context.Background(), "tok", draft, img)
	if !errors.Is(err, domain.ErrImageType) {
		t.Fatalf("expected ErrImageType, got %v", err)
	}
	if called {
		t.Fatal("invalid image must be rejected client-side")
	}
}

func TestPlaceOrder_EmptyCartRejected(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	err := client.PlaceOrder(context.Background(), "tok", nil)
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceOrder_SendsOnlyIDAndQuantity(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload struct {
			Items []map[string]json.Number `json:"items"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if len(payload.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(payload.Items))
		}
		if len(payload.Items[0]) != 2 {
			t.Errorf("payload must carry only productId and quantity: %v", payload.Items[0])
		}
	}))

	err := client.PlaceOrder(context.Background(), "tok", []domain.NewOrderItem{{ProductID: 7, Quantity: 3}})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
}

func TestUpdateOrderStatus_PatchBody(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/Orders/7/status" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "Approved" {
			t.Errorf("expected status Approved, got %q", body["status"])
		}
	}))

	if err := client.UpdateOrderStatus(context.Background(), "tok", 7, domain.OrderStatusApproved); err != nil {
		t.Fatalf("update status: %v", err)
	}
}

func TestMyHistory_DecodesOrders(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"orderId":     7,
				"orderDate":   "2026-08-01T10:30:00Z",
				"status":      "Pending",
				"totalAmount": 60.0,
				"items": []map[string]any{
					{"productName": "Soap", "quantity": 3, "unit": "pcs", "price": 20.0},
				},
			},
		})
	}))

	orders, err := client.MyHistory(context.Background(), "tok")
	if err != nil {
		t.Fatalf("my history: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != 7 || orders[0].Status != domain.OrderStatusPending {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if orders[0].TotalAmount != 60 {
		t.Fatalf("expected total 60, got %v", orders[0].TotalAmount)
	}
}
