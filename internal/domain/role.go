package domain

import (
	"encoding/json"
	"fmt"
)

// Role описывает закрытое множество ролей пользователей витрины.
// Роль — не произвольная строка: все ветвления по ролям обязаны быть
// исчерпывающими, неизвестное значение отклоняется на границе (ParseRole).
type Role int

const (
	// RoleAdmin — оператор оптовой платформы: каталог, заказы, пользователи.
	RoleAdmin Role = iota + 1
	// RoleCustomer — розничный покупатель: маркетплейс, корзина, история заказов.
	RoleCustomer
)

const (
	roleAdminWire    = "Admin"
	roleCustomerWire = "Customer"
)

// ParseRole преобразует строку из ответа бэкенда в Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleAdminWire:
		return RoleAdmin, nil
	case roleCustomerWire:
		return RoleCustomer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// String возвращает каноничное представление роли (совпадает с wire-форматом).
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleAdminWire
	case RoleCustomer:
		return roleCustomerWire
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// HomePath возвращает домашний маршрут для роли.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/dashboard"
}

// Valid сообщает, входит ли значение в закрытое множество ролей.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// MarshalJSON сериализует роль в wire-формат бэкенда.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, int(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON принимает только известные роли.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
