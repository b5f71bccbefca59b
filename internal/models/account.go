package models

// AccountKind represents the kind of account
type AccountKind string

const (
	AccountKindCard       AccountKind = "card"
	AccountKindDebitCard  AccountKind = "debit_card"
	AccountKindWallet     AccountKind = "wallet"
	AccountKindCash       AccountKind = "cash"
	AccountKindInvestment AccountKind = "investment"
	AccountKindSavings    AccountKind = "savings"
	AccountKindPiggyBank  AccountKind = "piggy_bank"
	AccountKindShop       AccountKind = "shop"
	AccountKindBitcoin    AccountKind = "bitcoin"
	AccountKindStore      AccountKind = "store"
)

// Account represents a financial account in the system.
//
// Balance is derived state owned by the transaction service: it changes only
// inside the database transaction that records a transaction mutation.
// Callers must treat a cached balance as authoritative only immediately
// after a fetch.
type Account struct {
	Base
	UserID  string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string      `gorm:"not null" json:"name"`
	Kind    AccountKind `gorm:"not null" json:"kind"`
	Balance int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Icon    string      `json:"icon"`
	Color   string      `json:"color"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}
