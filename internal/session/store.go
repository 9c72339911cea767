package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/metrics"
)

// CookieName — имя cookie с идентификатором сессии. Сами учётные данные
// браузеру не выдаются.
const CookieName = "wholesalebox_session"

// Store управляет жизненным циклом сессий поверх SessionRepository.
// Разрешение сессии всегда локально: сетевых вызовов нет, поэтому
// guard может принимать решение синхронно.
type Store struct {
	repo    domain.SessionRepository
	logger  *log.Entry
	metrics *metrics.StorefrontMetrics
}

// NewStore создаёт session store поверх переданного репозитория.
func NewStore(repo domain.SessionRepository, logger *log.Entry, m *metrics.StorefrontMetrics) *Store {
	if logger == nil {
		logger = log.WithField("component", "session")
	}
	return &Store{repo: repo, logger: logger, metrics: m}
}

// Initialize восстанавливает сессию по идентификатору из cookie.
// Любая проблема — отсутствие, повреждённые данные, отказ хранилища —
// трактуется как анонимное состояние (fail open), не как сбой.
func (s *Store) Initialize(ctx context.Context, sessionID string) *domain.Session {
	if sessionID == "" {
		return nil
	}

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.WithError(err).Warn("session lookup failed, treating as anonymous")
		}
		return nil
	}
	if !sess.Authenticated() {
		// Запись есть, но содержимое неполноценно — эквивалент отсутствия.
		return nil
	}
	return &sess
}

// Login создаёт новую сессию для identity и сохраняет её.
// Каждый логин — новая сессия; предыдущие cookie просто перестают находиться.
func (s *Store) Login(ctx context.Context, identity domain.Identity, token string) (domain.Session, error) {
	sess := domain.Session{
		ID:        uuid.NewString(),
		Token:     token,
		Identity:  identity,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.metrics.RecordSessionOpened()
	return sess, nil
}

// Logout уничтожает сессию. Отсутствие сессии ошибкой не считается.
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.metrics.RecordSessionClosed()
	return nil
}

// FromRequest восстанавливает сессию по cookie запроса.
func (s *Store) FromRequest(r *http.Request) *domain.Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return s.Initialize(r.Context(), cookie.Value)
}

// WriteCookie устанавливает cookie сессии.
func WriteCookie(w http.ResponseWriter, sess domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie стирает cookie сессии у клиента.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
