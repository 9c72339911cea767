package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// sessionRepositoryInMemory — простая in-memory реализация SessionRepository.
type sessionRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Session
}

// NewSessionRepository возвращает in-memory репозиторий для локальной
// разработки и тестов. Сессии живут до рестарта процесса.
func NewSessionRepository() domain.SessionRepository {
	return &sessionRepositoryInMemory{
		items: make(map[string]domain.Session),
	}
}

// Save перезаписывает сессию с тем же ID.
func (r *sessionRepositoryInMemory) Save(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[session.ID] = session
	return nil
}

// Get возвращает сессию или ErrSessionNotFound.
func (r *sessionRepositoryInMemory) Get(_ context.Context, id string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.items[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Delete удаляет сессию; повторное удаление — no-op.
func (r *sessionRepositoryInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

var _ domain.SessionRepository = (*sessionRepositoryInMemory)(nil)
