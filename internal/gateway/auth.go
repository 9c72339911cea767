package gateway

import (
	"context"
	"net/http"
	"unicode"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// RegisterForm — данные формы регистрации розничного покупателя.
type RegisterForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

type loginResponse struct {
	Token  string      `json:"token"`
	UserID string      `json:"userId"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// ValidateLoginPassword проверяет пароль формы логина до сетевого вызова:
// минимум 8 символов, хотя бы одна буква и одна цифра.
func ValidateLoginPassword(password string) error {
	if password == "" {
		return domain.ErrPasswordRequired
	}
	if len(password) < 8 {
		return domain.ErrPasswordWeak
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.ErrPasswordWeak
	}
	return nil
}

// ValidateNewPassword проверяет пару полей формы смены пароля.
// NOTE: исторически требования мягче логина (минимум 6 символов) —
// сохранено как есть, финальную проверку делает бэкенд.
func ValidateNewPassword(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}
	if len(newPassword) < 6 {
		return domain.ErrPasswordShort
	}
	return nil
}

// Login аутентифицирует пользователя и возвращает identity вместе с токеном.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Identity, string, error) {
	if err := ValidateLoginPassword(password); err != nil {
		return domain.Identity{}, "", err
	}

	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return domain.Identity{}, "", err
	}

	var resp loginResponse
	err = c.doJSON(ctx, call{
		op:          "POST /Auth/login",
		method:      http.MethodPost,
		path:        "/Auth/login",
		body:        body,
		contentType: "application/json",
		fallback:    "Invalid email or password",
	}, &resp)
	if err != nil {
		return domain.Identity{}, "", err
	}

	identity := domain.Identity{
		UserID: resp.UserID,
		Name:   resp.Name,
		Email:  resp.Email,
		Role:   resp.Role,
	}
	return identity, resp.Token, nil
}

// Register создаёт учётную запись покупателя. Сессия при этом не создаётся:
// пользователь проходит логин отдельно.
func (c *Client) Register(ctx context.Context, form RegisterForm) error {
	if err := ValidateLoginPassword(form.Password); err != nil {
		return err
	}

	body, err := jsonBody(form)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		op:          "POST /Auth/register",
		method:      http.MethodPost,
		path:        "/Auth/register",
		body:        body,
		contentType: "application/json",
		fallback:    "Registration failed. Please try again.",
	}, nil)
}

// CreateAdmin создаёт административную учётную запись (доступно только админу).
func (c *Client) CreateAdmin(ctx context.Context, token, name, email, password string) error {
	if err := ValidateLoginPassword(password); err != nil {
		return err
	}

	body, err := jsonBody(map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		op:          "POST /Auth/create-admin",
		method:      http.MethodPost,
		path:        "/Auth/create-admin",
		token:       token,
		body:        body,
		contentType: "application/json",
		fallback:    "Failed to create admin",
	}, nil)
}

// ChangePassword меняет пароль текущего пользователя.
// После успешного ответа вызывающая сторона обязана уничтожить сессию.
func (c *Client) ChangePassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if err := ValidateNewPassword(newPassword, confirmPassword); err != nil {
		return err
	}

	body, err := jsonBody(map[string]string{"newPassword": newPassword})
	if err != nil {
		return err
	}
	return c.doJSON(ctx, call{
		op:          "POST /Auth/change-password",
		method:      http.MethodPost,
		path:        "/Auth/change-password",
		token:       token,
		body:        body,
		contentType: "application/json",
		fallback:    "Failed to update password",
	}, nil)
}
