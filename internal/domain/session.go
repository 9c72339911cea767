package domain

import "time"

// Identity — аутентифицированный пользователь, как его вернул бэкенд.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Session связывает identity с credential-токеном бэкенда.
// Сессия — единственный источник правды между перезапусками витрины:
// создаётся при логине/регистрации, уничтожается при logout и смене пароля,
// перезаписывается при каждом новом логине. Refresh/expiry не реализованы:
// токен считается валидным, пока его явно не очистили.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"createdAt"`
}

// Authenticated сообщает, представляет ли сессия вошедшего пользователя.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.Identity.Role.Valid()
}
