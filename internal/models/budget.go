package models

import "time"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget represents a spending limit for an expense category in one calendar
// month. Month is always the first day of that month (the month-key); the
// database enforces uniqueness of (user_id, category_id, month).
type Budget struct {
	Base
	UserID      string       `gorm:"type:uuid;not null;uniqueIndex:uq_budgets_user_category_month" json:"user_id"`
	CategoryID  string       `gorm:"type:uuid;not null;uniqueIndex:uq_budgets_user_category_month" json:"category_id"`
	LimitAmount int64        `gorm:"type:bigint;not null" json:"limit_amount"`
	Month       time.Time    `gorm:"not null;uniqueIndex:uq_budgets_user_category_month" json:"month"`
	Period      BudgetPeriod `gorm:"not null;default:'monthly'" json:"period"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
