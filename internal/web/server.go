package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/cart"
	"github.com/vladislavdragonenkov/wholesalebox/internal/catalog"
	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/export"
	"github.com/vladislavdragonenkov/wholesalebox/internal/gateway"
	"github.com/vladislavdragonenkov/wholesalebox/internal/orders"
	"github.com/vladislavdragonenkov/wholesalebox/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

// Server — HTTP-поверхность витрины: аутентификация, каталог, корзина,
// заказы и экспорт. Вся работа с оптовым бэкендом идёт через gateway,
// сессия разрешается из cookie на каждом запросе.
type Server struct {
	gateway  *gateway.Client
	sessions *session.Store
	pager    *catalog.Pager
	views    *catalog.Views
	carts    *cart.Manager
	orders   *orders.Service
	exporter *export.Exporter
	logger   *log.Entry
}

// NewServer собирает сервер из готовых компонентов.
func NewServer(
	gw *gateway.Client,
	sessions *session.Store,
	pager *catalog.Pager,
	views *catalog.Views,
	carts *cart.Manager,
	orderSvc *orders.Service,
	exporter *export.Exporter,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "web")
	}
	return &Server{
		gateway:  gw,
		sessions: sessions,
		pager:    pager,
		views:    views,
		carts:    carts,
		orders:   orderSvc,
		exporter: exporter,
		logger:   logger,
	}
}

// Router строит маршрутизатор витрины.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.sessionMiddleware)

	// Аутентификация.
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.Handle("/auth/change-password",
		s.requireAuth(nil, s.handleChangePassword)).Methods(http.MethodPost)
	api.Handle("/auth/create-admin",
		s.requireAuth(roleOf(domain.RoleAdmin), s.handleCreateAdmin)).Methods(http.MethodPost)
	api.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)

	// Каталог покупателя.
	customer := roleOf(domain.RoleCustomer)
	api.Handle("/catalog", s.requireAuth(customer, s.handleCatalog)).Methods(http.MethodGet)
	api.Handle("/catalog/term", s.requireAuth(customer, s.handleCatalogTerm)).Methods(http.MethodPost)
	api.Handle("/catalog/page", s.requireAuth(customer, s.handleCatalogPage)).Methods(http.MethodPost)
	api.Handle("/catalog/view", s.requireAuth(customer, s.handleCatalogView)).Methods(http.MethodGet)

	// Корзина и оформление заказа.
	api.Handle("/cart", s.requireAuth(customer, s.handleCartView)).Methods(http.MethodGet)
	api.Handle("/cart/items", s.requireAuth(customer, s.handleCartAdd)).Methods(http.MethodPost)
	api.Handle("/cart/items/{productId:[0-9]+}",
		s.requireAuth(customer, s.handleCartAdjust)).Methods(http.MethodPatch)
	api.Handle("/cart/items/{productId:[0-9]+}",
		s.requireAuth(customer, s.handleCartRemove)).Methods(http.MethodDelete)
	api.Handle("/cart/checkout", s.requireAuth(customer, s.handleCheckout)).Methods(http.MethodPost)

	// История заказов покупателя.
	api.Handle("/orders/history", s.requireAuth(customer, s.handleHistory)).Methods(http.MethodGet)
	api.Handle("/orders/{id:[0-9]+}/export",
		s.requireAuth(customer, s.handleCustomerExport)).Methods(http.MethodGet)

	// Админская зона.
	admin := roleOf(domain.RoleAdmin)
	api.Handle("/admin/products", s.requireAuth(admin, s.handleAdminProducts)).Methods(http.MethodGet)
	api.Handle("/admin/products", s.requireAuth(admin, s.handleProductCreate)).Methods(http.MethodPost)
	api.Handle("/admin/products/{id:[0-9]+}",
		s.requireAuth(admin, s.handleProductUpdate)).Methods(http.MethodPut)
	api.Handle("/admin/products/{id:[0-9]+}",
		s.requireAuth(admin, s.handleProductDelete)).Methods(http.MethodDelete)
	api.Handle("/admin/orders", s.requireAuth(admin, s.handleAdminOrders)).Methods(http.MethodGet)
	api.Handle("/admin/orders/{id:[0-9]+}/status",
		s.requireAuth(admin, s.handleOrderStatus)).Methods(http.MethodPost)
	api.Handle("/admin/orders/{id:[0-9]+}/export",
		s.requireAuth(admin, s.handleAdminExport)).Methods(http.MethodGet)
	api.Handle("/admin/users/admins", s.requireAuth(admin, s.handleAdmins)).Methods(http.MethodGet)
	api.Handle("/admin/users/customers", s.requireAuth(admin, s.handleCustomers)).Methods(http.MethodGet)

	// Страничные маршруты: guard решает, показывать или перенаправлять.
	r.PathPrefix("/").HandlerFunc(s.handlePage).Methods(http.MethodGet)

	return r
}

func roleOf(r domain.Role) *domain.Role {
	return &r
}

// sessionMiddleware кладёт сессию запроса (или nil) в контекст.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.FromRequest(r)
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth пускает только вошедших; при role != nil — только эту роль.
// API отвечает статусами, а не редиректами: редиректы — дело страниц.
func (s *Server) requireAuth(role *domain.Role, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if !sess.Authenticated() {
			writeMessage(w, http.StatusUnauthorized, "Please log in.")
			return
		}
		if role != nil && sess.Identity.Role != *role {
			writeMessage(w, http.StatusForbidden, "Access denied.")
			return
		}
		next(w, r)
	})
}

func sessionFrom(r *http.Request) *domain.Session {
	sess, _ := r.Context().Value(sessionKey).(*domain.Session)
	return sess
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(started).String(),
		}).Info("request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
