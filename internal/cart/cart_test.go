package cart_test

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/cart"
	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("test", "cart")
}

func soap() domain.Product {
	return domain.Product{ProductID: 1, ProductName: "Soap", Price: 20, Unit: "pcs"}
}

func rice() domain.Product {
	return domain.Product{ProductID: 2, ProductName: "Rice", Price: 55.5, Unit: "kg"}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCart_AddMergesDuplicates(t *testing.T) {
	c := cart.New()
	c.Add(soap(), 2)
	c.Add(rice(), 1)
	c.Add(soap(), 3)

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// Порядок добавления сохраняется, количество слилось.
	if lines[0].Product.ProductID != 1 || lines[0].Quantity != 5 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Product.ProductID != 2 || lines[1].Quantity != 1 {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

func TestCart_AddClampsQuantity(t *testing.T) {
	c := cart.New()
	c.Add(soap(), 0)
	c.Add(rice(), -5)

	for _, line := range c.Lines() {
		if line.Quantity != 1 {
			t.Fatalf("expected quantity clamp to 1, got %+v", line)
		}
	}
}

func TestCart_AdjustClampsBelowOne(t *testing.T) {
	c := cart.New()
	c.Add(soap(), 3)

	if err := c.Adjust(1, 0); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}

	if err := c.Adjust(1, 7); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got := c.Lines()[0].Quantity; got != 7 {
		t.Fatalf("expected quantity 7, got %d", got)
	}
}

func TestCart_AdjustUnknownLine(t *testing.T) {
	c := cart.New()
	if err := c.Adjust(99, 2); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
}

func TestCart_RemoveAndTotal(t *testing.T) {
	c := cart.New()
	c.Add(soap(), 3) // 60
	c.Add(rice(), 2) // 111

	if got := c.Total(); !almostEqual(got, 171) {
		t.Fatalf("expected total 171, got %v", got)
	}

	if err := c.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := c.Total(); !almostEqual(got, 111) {
		t.Fatalf("expected total 111 after remove, got %v", got)
	}
	if err := c.Remove(1); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound on double remove, got %v", err)
	}
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := cart.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(soap(), 1)
		}()
	}
	wg.Wait()

	if got := c.Lines()[0].Quantity; got != 50 {
		t.Fatalf("expected quantity 50, got %d", got)
	}
	if c.Size() != 1 {
		t.Fatalf("expected single line, got %d", c.Size())
	}
}

// fakePlacer запоминает отправленный заказ и отвечает заданной ошибкой.
type fakePlacer struct {
	mu    sync.Mutex
	items [][]domain.NewOrderItem
	err   error
}

func (p *fakePlacer) PlaceOrder(_ context.Context, _ string, items []domain.NewOrderItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.items = append(p.items, items)
	return nil
}

func TestManager_SubmitClearsCartOnSuccess(t *testing.T) {
	placer := &fakePlacer{}
	m := cart.NewManager(placer, testLogger())

	c := m.For("session-1")
	c.Add(soap(), 3)
	c.Add(rice(), 1)

	if err := m.Submit(context.Background(), "session-1", "tok"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.Size() != 0 {
		t.Fatalf("expected cart cleared, %d lines left", c.Size())
	}

	sent := placer.items[0]
	if len(sent) != 2 || sent[0].ProductID != 1 || sent[0].Quantity != 3 {
		t.Fatalf("unexpected order payload: %+v", sent)
	}
}

func TestManager_SubmitPreservesCartOnFailure(t *testing.T) {
	placer := &fakePlacer{err: errors.New("backend down")}
	m := cart.NewManager(placer, testLogger())

	c := m.For("session-1")
	c.Add(soap(), 2)

	if err := m.Submit(context.Background(), "session-1", "tok"); err == nil {
		t.Fatal("expected error")
	}
	// Корзина не тронута: покупатель может повторить отправку.
	if c.Size() != 1 || c.Lines()[0].Quantity != 2 {
		t.Fatalf("cart must be preserved on failure: %+v", c.Lines())
	}
}

func TestManager_SubmitEmptyCart(t *testing.T) {
	placer := &fakePlacer{}
	m := cart.NewManager(placer, testLogger())

	err := m.Submit(context.Background(), "session-1", "tok")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(placer.items) != 0 {
		t.Fatal("empty cart must not reach the backend")
	}
}

func TestManager_PerSessionIsolation(t *testing.T) {
	m := cart.NewManager(&fakePlacer{}, testLogger())

	m.For("a").Add(soap(), 1)
	if m.For("b").Size() != 0 {
		t.Fatal("sessions must not share carts")
	}

	m.Drop("a")
	if m.For("a").Size() != 0 {
		t.Fatal("expected fresh cart after drop")
	}
}
