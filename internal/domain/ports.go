package domain

import "context"

// SessionRepository хранит сессии витрины между перезапусками.
// Реализации: in-memory (dev/тесты) и PostgreSQL (production).
type SessionRepository interface {
	// Save перезаписывает сессию с тем же ID (логин поверх логина).
	Save(ctx context.Context, session Session) error
	// Get возвращает сессию или ErrSessionNotFound. Повреждённые данные
	// приравниваются к отсутствию сессии, а не к ошибке.
	Get(ctx context.Context, id string) (Session, error)
	// Delete удаляет сессию; отсутствие сессии ошибкой не считается.
	Delete(ctx context.Context, id string) error
}

// CatalogCache хранит краткоживущий снимок полного каталога,
// собранный режимом поиска, чтобы серия поисковых запросов
// не обходила бэкенд заново.
type CatalogCache interface {
	GetSnapshot(ctx context.Context) ([]Product, bool)
	SetSnapshot(ctx context.Context, products []Product)
}
