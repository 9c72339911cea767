package gateway

import (
	"context"
	"net/http"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// ListAdmins возвращает административные учётные записи.
func (c *Client) ListAdmins(ctx context.Context, token string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := c.doJSON(ctx, call{
		op:       "GET /Users/admins",
		method:   http.MethodGet,
		path:     "/Users/admins",
		token:    token,
		fallback: "Failed to load admins",
	}, &accounts)
	return accounts, err
}

// ListCustomers возвращает зарегистрированных покупателей.
func (c *Client) ListCustomers(ctx context.Context, token string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := c.doJSON(ctx, call{
		op:       "GET /Users/customers",
		method:   http.MethodGet,
		path:     "/Users/customers",
		token:    token,
		fallback: "Failed to load customers",
	}, &accounts)
	return accounts, err
}
