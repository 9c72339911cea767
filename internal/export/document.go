package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// Row — строка таблицы позиций экспортируемого заказа.
type Row struct {
	Name     string
	Quantity int
	Unit     string
	Price    float64
	Subtotal float64
}

// Label возвращает подпись позиции вида "3 pcs x Soap".
func (r Row) Label() string {
	unit := r.Unit
	if unit == "" {
		unit = "pcs"
	}
	return fmt.Sprintf("%d %s x %s", r.Quantity, unit, r.Name)
}

// DisplayAmount — сумма позиции для показа на экране.
func (r Row) DisplayAmount() string {
	return rupees(r.Subtotal)
}

// Document — готовая к рендеру модель экспорта заказа.
// Total берётся из сохранённого итога заказа, а не пересчитывается
// из строк: итог принадлежит бэкенду.
type Document struct {
	FileName     string
	CustomerName string
	OrderID      int64
	OrderDate    time.Time
	Status       domain.OrderStatus
	Rows         []Row
	Total        float64
}

// DisplayTotal — итог заказа для показа на экране.
func (d Document) DisplayTotal() string {
	return rupees(d.Total)
}

// BuildDocument собирает модель экспорта из заказа. Заказ без позиций
// экспортировать нельзя: общий админский список приходит без позиций,
// и такой заказ сперва нужно дозагрузить.
func BuildDocument(order domain.Order, customerName string) (Document, error) {
	if len(order.Items) == 0 {
		return Document{}, domain.ErrMissingItems
	}

	rows := make([]Row, 0, len(order.Items))
	for _, item := range order.Items {
		rows = append(rows, Row{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Price:    item.Price,
			Subtotal: item.Subtotal(),
		})
	}

	return Document{
		FileName:     FileName(customerName),
		CustomerName: customerName,
		OrderID:      order.OrderID,
		OrderDate:    order.OrderDate,
		Status:       order.Status,
		Rows:         rows,
		Total:        order.TotalAmount,
	}, nil
}

// FileName строит имя файла экспорта: всё, кроме букв и цифр,
// заменяется подчёркиванием.
func FileName(customerName string) string {
	var b strings.Builder
	b.WriteString("Items_List_")
	for _, r := range customerName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString(".pdf")
	return b.String()
}

func rupees(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
