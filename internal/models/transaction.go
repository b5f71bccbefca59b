package models

import "time"

// TransactionKind represents the kind of transaction
type TransactionKind string

const (
	TransactionKindIncome   TransactionKind = "income"
	TransactionKindExpense  TransactionKind = "expense"
	TransactionKindTransfer TransactionKind = "transfer"
)

// Transaction represents a financial transaction in the system.
// Amount is always a positive magnitude in cents; the sign is implied by Kind.
type Transaction struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID       string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID      string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Kind            TransactionKind `gorm:"not null" json:"kind"`
	Amount          int64           `gorm:"type:bigint;not null" json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`

	// For transfers
	ToAccountID *string `gorm:"type:uuid" json:"to_account_id,omitempty"`

	// Relationships
	Account   Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	Category  Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
