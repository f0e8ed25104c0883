package finance

import "time"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is one recorded income or expense. Amount is whole rupiah.
type Transaction struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"index"`
	Type            string    `json:"type"`
	Amount          int64     `json:"amount"`
	CategoryID      string    `json:"category_id,omitempty"`
	CategoryName    string    `json:"category_name,omitempty" gorm:"-"`
	Description     string    `json:"description,omitempty"`
	MerchantName    string    `json:"merchant_name,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
	ReceiptURL      string    `json:"receipt_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Category labels transactions. Default categories are shared by everyone
// (empty UserID); custom ones belong to the user who created them.
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id,omitempty" gorm:"index"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}
