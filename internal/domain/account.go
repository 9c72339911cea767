package domain

// Account — запись пользователя из админских списков /Users/admins
// и /Users/customers. Контактные поля заполнены только у покупателей.
type Account struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}
