package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// ListOrders возвращает все заказы платформы (админ).
// Бэкенд не включает позиции в этот список — их доклеивает orders.Service.
func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.doJSON(ctx, call{
		op:       "GET /Orders",
		method:   http.MethodGet,
		path:     "/Orders",
		token:    token,
		fallback: "Failed to load orders",
	}, &orders)
	return orders, err
}

// CustomerOrders возвращает заказы конкретного покупателя вместе с позициями.
func (c *Client) CustomerOrders(ctx context.Context, token, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.doJSON(ctx, call{
		op:       "GET /Orders/customer/{userId}",
		method:   http.MethodGet,
		path:     "/Orders/customer/" + userID,
		token:    token,
		fallback: "Failed to load customer orders",
	}, &orders)
	return orders, err
}

// MyHistory возвращает историю заказов текущего пользователя.
func (c *Client) MyHistory(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.doJSON(ctx, call{
		op:       "GET /Orders/my-history",
		method:   http.MethodGet,
		path:     "/Orders/my-history",
		token:    token,
		fallback: "Failed to load order history",
	}, &orders)
	return orders, err
}

// PlaceOrder отправляет новый заказ: только id товара и количество.
func (c *Client) PlaceOrder(ctx context.Context, token string, items []domain.NewOrderItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}

	body, err := jsonBody(map[string]any{"items": items})
	if err != nil {
		return err
	}
	err = c.doJSON(ctx, call{
		op:          "POST /Orders",
		method:      http.MethodPost,
		path:        "/Orders",
		token:       token,
		body:        body,
		contentType: "application/json",
		fallback:    "Failed to place order.",
	}, nil)
	if err == nil {
		c.metrics.RecordOrderPlaced()
	}
	return err
}

// UpdateOrderStatus продвигает статус заказа (админ).
// Валидность перехода проверяется вызывающей стороной по таблице переходов;
// бэкенд остаётся финальным арбитром.
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, orderID int64, status domain.OrderStatus) error {
	body, err := jsonBody(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		op:          "PATCH /Orders/{id}/status",
		method:      http.MethodPatch,
		path:        fmt.Sprintf("/Orders/%d/status", orderID),
		token:       token,
		body:        body,
		contentType: "application/json",
		fallback:    "Status update failed",
	}, nil)
}
