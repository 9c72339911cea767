package domain

import "time"

// OrderStatus описывает жизненный цикл оптового заказа.
// Статус движется только вперёд и только действиями администратора;
// покупатель статус не меняет.
type OrderStatus string

const (
	// OrderStatusPending — заказ отправлен покупателем и ждёт решения администратора.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusApproved — заказ подтверждён и готовится к отгрузке.
	OrderStatusApproved OrderStatus = "Approved"
	// OrderStatusProcessing — легаси-статус бэкенда; отображается вместе с Approved.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusDelivered — заказ доставлен (терминальный).
	OrderStatusDelivered OrderStatus = "Delivered"
	// OrderStatusRejected — заказ отклонён (терминальный).
	OrderStatusRejected OrderStatus = "Rejected"
)

// NextStatuses возвращает переходы, допустимые из текущего статуса.
// Пустой срез означает терминальное состояние: интерфейс не предлагает
// таких действий вовсе, финальную валидацию выполняет бэкенд.
func (s OrderStatus) NextStatuses() []OrderStatus {
	switch s {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusApproved, OrderStatusRejected}
	case OrderStatusApproved:
		return []OrderStatus{OrderStatusDelivered}
	default:
		// Processing, Delivered, Rejected — переходы не предлагаются.
		return nil
	}
}

// CanTransition проверяет допустимость перехода s -> target.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, next := range s.NextStatuses() {
		if next == target {
			return true
		}
	}
	return false
}

// StatusGroup — секция истории заказов в интерфейсе.
type StatusGroup string

const (
	GroupPending   StatusGroup = "pending"
	GroupApproved  StatusGroup = "approved"
	GroupDelivered StatusGroup = "delivered"
	GroupRejected  StatusGroup = "rejected"
)

// Group относит статус к секции истории. Processing показывается
// в секции Approved — так делал исходный интерфейс.
func (s OrderStatus) Group() StatusGroup {
	switch s {
	case OrderStatusApproved, OrderStatusProcessing:
		return GroupApproved
	case OrderStatusDelivered:
		return GroupDelivered
	case OrderStatusRejected:
		return GroupRejected
	default:
		return GroupPending
	}
}

// OrderItem — одна позиция заказа в том виде, в котором её отдаёт бэкенд.
type OrderItem struct {
	ProductID   int64   `json:"productId,omitempty"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
	Price       float64 `json:"price"`
}

// Subtotal возвращает сумму позиции (qty * price).
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Order агрегирует заказ покупателя.
// TotalAmount принадлежит бэкенду и никогда не пересчитывается витриной.
type Order struct {
	OrderID     int64       `json:"orderId"`
	UserID      string      `json:"userId,omitempty"`
	OrderDate   time.Time   `json:"orderDate"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items,omitempty"`
	TotalAmount float64     `json:"totalAmount"`
}

// NewOrderItem — позиция создаваемого заказа: бэкенду уходят только
// идентификатор товара и количество.
type NewOrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
