package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

const opTimeout = 5 * time.Second

type sessionRepository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewSessionRepository создаёт PostgreSQL-реализацию SessionRepository.
func NewSessionRepository(store *Store, logger *log.Entry) domain.SessionRepository {
	if logger == nil {
		logger = log.WithField("component", "postgres-sessions")
	}
	return &sessionRepository{db: store.DB(), logger: logger}
}

// Save перезаписывает сессию (логин поверх логина — это upsert).
func (r *sessionRepository) Save(ctx context.Context, session domain.Session) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	identity, err := json.Marshal(session.Identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	_, err = r.db.ExecContext(opCtx, `
		INSERT INTO sessions (id, token, identity, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token,
		    identity = EXCLUDED.identity,
		    created_at = EXCLUDED.created_at
	`, session.ID, session.Token, identity, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get возвращает сессию или ErrSessionNotFound.
// Повреждённый identity-блок трактуется как отсутствие сессии:
// пользователь окажется анонимным, а не увидит ошибку.
func (r *sessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		session  domain.Session
		identity []byte
	)
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, token, identity, created_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(&session.ID, &session.Token, &identity, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("select session: %w", err)
	}

	if err := json.Unmarshal(identity, &session.Identity); err != nil {
		r.logger.WithError(err).WithField("session_id", id).
			Warn("malformed identity blob, treating session as absent")
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Delete удаляет сессию; отсутствие строки — не ошибка.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var _ domain.SessionRepository = (*sessionRepository)(nil)
