package cart

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// OrderPlacer отправляет собранный заказ на бэкенд.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, items []domain.NewOrderItem) error
}

// Manager раздаёт по корзине на сессию и оформляет заказы.
type Manager struct {
	placer OrderPlacer
	logger *log.Entry

	mu   sync.Mutex
	byID map[string]*Cart
}

// NewManager создаёт менеджер корзин.
func NewManager(placer OrderPlacer, logger *log.Entry) *Manager {
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	return &Manager{
		placer: placer,
		logger: logger,
		byID:   make(map[string]*Cart),
	}
}

// For возвращает корзину сессии, создавая её при первом обращении.
func (m *Manager) For(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.byID[sessionID]
	if !ok {
		cart = New()
		m.byID[sessionID] = cart
	}
	return cart
}

// Drop удаляет корзину сессии (logout).
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, sessionID)
}

// Submit оформляет заказ из корзины сессии. Пустая корзина — ошибка
// до любого сетевого вызова. При успехе корзина очищается; при отказе
// бэкенда содержимое сохраняется, чтобы покупатель мог повторить.
func (m *Manager) Submit(ctx context.Context, sessionID, token string) error {
	cart := m.For(sessionID)

	items := cart.orderItems()
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}

	if err := m.placer.PlaceOrder(ctx, token, items); err != nil {
		m.logger.WithError(err).Warn("order submission failed, cart preserved")
		return err
	}

	cart.Clear()
	return nil
}
