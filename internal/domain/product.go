package domain

// Product — read-only копия товара, принадлежащего бэкенду.
type Product struct {
	ProductID     int64   `json:"productId"`
	ProductName   string  `json:"productName"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	Unit          string  `json:"unit"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// InStock сообщает, доступен ли товар для добавления в корзину.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// ProductPage — одна страница каталога вместе с общим числом товаров,
// заявленным сервером. TotalCount нужен пагинатору для расчёта числа страниц
// и для условия остановки полного обхода в режиме поиска.
type ProductPage struct {
	Items      []Product `json:"items"`
	TotalCount int       `json:"totalCount"`
}

// ProductDraft — данные формы создания/редактирования товара.
// Цена и остаток валидируются до любого сетевого вызова.
type ProductDraft struct {
	ProductName   string
	Description   string
	Price         float64
	StockQuantity int
	Unit          string
	ImageURL      string
}

// ValidateInvariants проверяет базовые инварианты черновика товара.
func (d ProductDraft) ValidateInvariants() []error {
	var errs []error
	if d.ProductName == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if d.Price < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if d.StockQuantity < 0 {
		errs = append(errs, ErrStockNegative)
	}
	return errs
}
