package domain

import "errors"

var (
	// ErrUnknownRole возвращается при роли вне закрытого множества Admin/Customer.
	ErrUnknownRole = errors.New("unknown role")
	// ErrSessionNotFound возвращается, если сессии нет в хранилище
	// (или сохранённые данные повреждены — это эквивалент отсутствия).
	ErrSessionNotFound = errors.New("session not found")
	// ErrStaleResult сигнализирует, что ответ относится к устаревшему запросу
	// каталога и должен быть отброшен, а не показан поверх более нового.
	ErrStaleResult = errors.New("stale catalog result")
	// ErrMissingItems — у заказа нет массива позиций; экспорт невозможен.
	ErrMissingItems = errors.New("order details are missing items")
	// ErrEmptyCart — попытка оформить заказ из пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCartLineNotFound — в корзине нет строки с таким товаром.
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrInvalidTransition — запрошенный переход статуса не разрешён из текущего.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrOrderNotFound — заказ с таким id не найден в выборке бэкенда.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound — товара с таким id нет в каталоге.
	ErrProductNotFound = errors.New("product not found")

	// Ошибки валидации формы товара.
	ErrProductNameRequired = errors.New("product name is required")
	ErrPriceNegative       = errors.New("price must be non-negative")
	ErrStockNegative       = errors.New("stock quantity must be non-negative")

	// Ошибки клиентской валидации изображения (до сетевого вызова).
	ErrImageType = errors.New("Only JPEG, PNG or WebP images are allowed.")
	ErrImageSize = errors.New("Image must be smaller than 2MB.")

	// Ошибки клиентской валидации паролей. Тексты совпадают с тем,
	// что видит пользователь.
	ErrPasswordRequired = errors.New("Password is required.")
	ErrPasswordWeak     = errors.New("Password must be at least 8 characters and include letters and numbers.")
	ErrPasswordShort    = errors.New("Password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// IsValidation сообщает, относится ли ошибка к клиентской валидации:
// такие ошибки показываются пользователю как есть и не уходят в сеть.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrProductNameRequired, ErrPriceNegative, ErrStockNegative,
		ErrImageType, ErrImageSize,
		ErrPasswordRequired, ErrPasswordWeak, ErrPasswordShort, ErrPasswordMismatch,
		ErrEmptyCart, ErrInvalidTransition, ErrUnknownRole,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
