package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// SearchBox — состояние каталожного вида одной сессии: текущий терм,
// номер страницы и последний полученный результат.
//
// Каждый запуск загрузки получает порядковый номер. Результат
// применяется, только если его номер всё ещё последний: медленный
// старый ответ не может перетереть результат более позднего запроса.
type SearchBox struct {
	pager    *Pager
	token    string
	pageSize int
	debounce *Debouncer

	mu   sync.Mutex
	term string
	page int
	view Result
	err  error
	seq  uint64
}

// NewSearchBox создаёт состояние вида с дефолтной паузой debounce.
func NewSearchBox(pager *Pager, token string, pageSize int) *SearchBox {
	return NewSearchBoxWithDelay(pager, token, pageSize, DebounceDelay)
}

// NewSearchBoxWithDelay позволяет задать паузу debounce явно.
func NewSearchBoxWithDelay(pager *Pager, token string, pageSize int, delay time.Duration) *SearchBox {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SearchBox{
		pager:    pager,
		token:    token,
		pageSize: pageSize,
		debounce: NewDebouncer(delay),
		page:     1,
	}
}

// SetTerm принимает очередное значение поискового поля. Терм
// обрезается, страница сбрасывается на первую, а загрузка стартует
// только после паузы: серия быстрых правок даёт один запрос
// с последним значением.
func (s *SearchBox) SetTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.page = 1
	s.mu.Unlock()

	s.debounce.Trigger(func() {
		_ = s.refresh(context.Background())
	})
}

// SetPage переключает страницу и загружает её сразу, без debounce.
func (s *SearchBox) SetPage(ctx context.Context, page int) error {
	s.mu.Lock()
	if page < 1 {
		page = 1
	}
	s.page = page
	s.mu.Unlock()

	return s.refresh(ctx)
}

// Refresh перезагружает текущий вид немедленно (первый показ страницы,
// возврат со страницы корзины).
func (s *SearchBox) Refresh(ctx context.Context) error {
	return s.refresh(ctx)
}

// Snapshot возвращает последний применённый результат и ошибку
// последней загрузки.
func (s *SearchBox) Snapshot() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.err
}

// Close отменяет отложенную загрузку.
func (s *SearchBox) Close() {
	s.debounce.Stop()
}

// refresh выполняет загрузку текущего вида. Устаревший результат
// (за время запроса стартовал более новый) не применяется и
// сигнализируется через ErrStaleResult.
func (s *SearchBox) refresh(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	query := Query{Term: s.term, Page: s.page, PageSize: s.pageSize}
	token := s.token
	s.mu.Unlock()

	result, err := s.pager.Fetch(ctx, token, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return domain.ErrStaleResult
	}
	if err != nil {
		s.err = err
		return err
	}
	s.view = result
	s.err = nil
	// Pager мог зажать номер страницы — отражаем это в состоянии.
	s.page = result.Page
	return nil
}

// Views раздаёт по SearchBox на сессию. Вид живёт, пока жива сессия.
type Views struct {
	pager    *Pager
	pageSize int
	delay    time.Duration

	mu   sync.Mutex
	byID map[string]*SearchBox
}

// NewViews создаёт реестр каталожных видов.
func NewViews(pager *Pager, pageSize int) *Views {
	return &Views{
		pager:    pager,
		pageSize: pageSize,
		delay:    DebounceDelay,
		byID:     make(map[string]*SearchBox),
	}
}

// For возвращает вид сессии, создавая его при первом обращении.
// Токен обновляется на каждом обращении: после повторного логина вид
// продолжает ходить в бэкенд со свежим токеном.
func (v *Views) For(sessionID, token string) *SearchBox {
	v.mu.Lock()
	defer v.mu.Unlock()

	box, ok := v.byID[sessionID]
	if !ok {
		box = NewSearchBoxWithDelay(v.pager, token, v.pageSize, v.delay)
		v.byID[sessionID] = box
		return box
	}
	box.mu.Lock()
	box.token = token
	box.mu.Unlock()
	return box
}

// Drop удаляет вид сессии (logout).
func (v *Views) Drop(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if box, ok := v.byID[sessionID]; ok {
		box.Close()
		delete(v.byID, sessionID)
	}
}
