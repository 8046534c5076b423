package models

import (
	"time"

	"expensetracker/internal/uuid"

	"gorm.io/gorm"
)

// Entity kinds, as they appear in error messages.
const (
	EntityUser     = "User"
	EntityRole     = "Role"
	EntityCategory = "Category"
	EntityExpense  = "Expense"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
