package catalog

import (
	"sync"
	"time"
)

// DebounceDelay — пауза между последним изменением поискового терма и
// фактическим запросом каталога.
const DebounceDelay = 350 * time.Millisecond

// Debouncer откладывает выполнение функции: каждый новый Trigger
// отменяет ещё не сработавший предыдущий. Выполняется только последняя
// функция из серии.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer создаёт debouncer с заданной паузой.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger планирует fn через delay, отменяя предыдущий несработавший
// вызов. fn выполняется в отдельной горутине таймера.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop отменяет отложенный вызов, если он ещё не сработал.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
