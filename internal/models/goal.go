package models

import "time"

// GoalStatus represents the status of a savings goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Goal represents a savings goal. CurrentAmount is mutated only by explicit
// funding updates; fund movements are not ledgered as transactions and never
// touch account balances. Status transitions are explicit user edits; the
// system never writes "completed" on reaching the target.
type Goal struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    *string    `gorm:"type:uuid" json:"category_id,omitempty"`
	Name          string     `gorm:"not null" json:"name"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	TargetDate    time.Time  `gorm:"not null" json:"target_date"`
	Description   string     `json:"description"`
	Status        GoalStatus `gorm:"not null;default:'active'" json:"status"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
