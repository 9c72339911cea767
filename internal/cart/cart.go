package cart

import (
	"sync"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// Line — позиция корзины: товар и выбранное количество.
type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal — стоимость позиции.
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Cart — корзина одной сессии. Позиции хранятся в порядке добавления.
// Итог всегда пересчитывается из текущих позиций, отдельного
// накапливаемого состояния нет.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New создаёт пустую корзину.
func New() *Cart {
	return &Cart{}
}

// Add кладёт товар в корзину. Повторное добавление того же товара
// увеличивает количество существующей позиции, а не создаёт дубль.
func (c *Cart) Add(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ProductID == product.ProductID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
}

// Adjust выставляет количество позиции. Значения меньше единицы
// зажимаются до единицы: убрать товар можно только явным Remove.
func (c *Cart) Adjust(productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ProductID == productID {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrCartLineNotFound
}

// Remove убирает позицию целиком.
func (c *Cart) Remove(productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrCartLineNotFound
}

// Lines возвращает копию позиций в порядке добавления.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total — суммарная стоимость корзины.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// Size — число позиций (не единиц товара).
func (c *Cart) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear опустошает корзину.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// orderItems сворачивает позиции в payload заказа: только id и количество.
func (c *Cart) orderItems() []domain.NewOrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.NewOrderItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, domain.NewOrderItem{
			ProductID: line.Product.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return items
}
