package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// maxJoinWorkers ограничивает параллелизм дозагрузки позиций
// в админском списке заказов.
const maxJoinWorkers = 4

// Backend — операции оптового бэкенда, нужные сервису заказов.
type Backend interface {
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	CustomerOrders(ctx context.Context, token, userID string) ([]domain.Order, error)
	MyHistory(ctx context.Context, token string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, orderID int64, status domain.OrderStatus) error
}

// History — история заказов покупателя, разложенная по секциям.
type History struct {
	Pending   []domain.Order `json:"pending"`
	Approved  []domain.Order `json:"approved"`
	Delivered []domain.Order `json:"delivered"`
	Rejected  []domain.Order `json:"rejected"`
}

// JoinFailure — покупатель, чьи позиции дозагрузить не удалось.
type JoinFailure struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// JoinResult — админский список заказов с позициями. Отказ по одному
// покупателю не роняет весь список: его заказы остаются без позиций,
// а отказ попадает в Failed.
type JoinResult struct {
	Orders []domain.Order `json:"orders"`
	Failed []JoinFailure  `json:"failed,omitempty"`
}

// Service реализует сценарии работы с заказами поверх бэкенда.
type Service struct {
	backend Backend
	logger  *log.Entry
}

// NewService создаёт сервис заказов.
func NewService(backend Backend, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Service{backend: backend, logger: logger}
}

// History возвращает историю заказов текущего пользователя,
// сгруппированную по секциям. Processing попадает в секцию Approved.
func (s *Service) History(ctx context.Context, token string) (History, error) {
	orders, err := s.backend.MyHistory(ctx, token)
	if err != nil {
		return History{}, err
	}
	return groupHistory(orders), nil
}

// Transition продвигает статус заказа. Недопустимый переход
// отклоняется локально, не доходя до бэкенда.
func (s *Service) Transition(ctx context.Context, token string, order domain.Order, target domain.OrderStatus) error {
	if !order.Status.CanTransition(target) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, target)
	}
	return s.backend.UpdateOrderStatus(ctx, token, order.OrderID, target)
}

// AllWithItems возвращает все заказы платформы с позициями.
//
// Общий список бэкенд отдаёт без позиций, а позиции приходят только
// в покупательских выборках, поэтому сервис собирает уникальных
// покупателей и дозагружает их заказы параллельно. Результат
// детерминирован: заказы сортируются по убыванию OrderID.
func (s *Service) AllWithItems(ctx context.Context, token string) (JoinResult, error) {
	orders, err := s.backend.ListOrders(ctx, token)
	if err != nil {
		return JoinResult{}, err
	}

	userIDs := uniqueUserIDs(orders)
	detailed, failures := s.joinCustomerItems(ctx, token, userIDs)

	for i := range orders {
		if full, ok := detailed[orders[i].OrderID]; ok {
			orders[i].Items = full.Items
		}
	}

	sort.Slice(orders, func(a, b int) bool {
		return orders[a].OrderID > orders[b].OrderID
	})
	return JoinResult{Orders: orders, Failed: failures}, nil
}

// Find возвращает заказ из общего списка по id (без позиций).
func (s *Service) Find(ctx context.Context, token string, orderID int64) (domain.Order, error) {
	all, err := s.backend.ListOrders(ctx, token)
	if err != nil {
		return domain.Order{}, err
	}
	for _, order := range all {
		if order.OrderID == orderID {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// FindWithItems возвращает заказ вместе с позициями: общий список их
// не содержит, поэтому после поиска заказ дозагружается покупательской
// выборкой.
func (s *Service) FindWithItems(ctx context.Context, token string, orderID int64) (domain.Order, error) {
	order, err := s.Find(ctx, token, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(order.Items) > 0 || order.UserID == "" {
		return order, nil
	}

	customerOrders, err := s.backend.CustomerOrders(ctx, token, order.UserID)
	if err != nil {
		return domain.Order{}, err
	}
	for _, full := range customerOrders {
		if full.OrderID == orderID {
			return full, nil
		}
	}
	return order, nil
}

// joinCustomerItems параллельно выбирает заказы каждого покупателя
// и индексирует их по OrderID. Отказы собираются отдельно.
func (s *Service) joinCustomerItems(ctx context.Context, token string, userIDs []string) (map[int64]domain.Order, []JoinFailure) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		detailed = make(map[int64]domain.Order)
		failures []JoinFailure
		sem      = make(chan struct{}, maxJoinWorkers)
	)

	for _, userID := range userIDs {
		userID := userID
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			customerOrders, err := s.backend.CustomerOrders(ctx, token, userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WithError(err).WithField("user_id", userID).
					Warn("customer orders join failed")
				failures = append(failures, JoinFailure{UserID: userID, Reason: err.Error()})
				return
			}
			for _, order := range customerOrders {
				detailed[order.OrderID] = order
			}
		}()
	}
	wg.Wait()

	sort.Slice(failures, func(a, b int) bool {
		return failures[a].UserID < failures[b].UserID
	})
	return detailed, failures
}

func groupHistory(orders []domain.Order) History {
	var h History
	for _, order := range orders {
		switch order.Status.Group() {
		case domain.GroupApproved:
			h.Approved = append(h.Approved, order)
		case domain.GroupDelivered:
			h.Delivered = append(h.Delivered, order)
		case domain.GroupRejected:
			h.Rejected = append(h.Rejected, order)
		default:
			h.Pending = append(h.Pending, order)
		}
	}
	return h
}

func uniqueUserIDs(orders []domain.Order) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, order := range orders {
		if order.UserID == "" || seen[order.UserID] {
			continue
		}
		seen[order.UserID] = true
		ids = append(ids, order.UserID)
	}
	return ids
}
