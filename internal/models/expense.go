package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places an amount is stored with.
const AmountScale = 4

// Expense represents a single expense owned by a user
type Expense struct {
	Base
	ShortDescription string          `gorm:"not null" json:"short_description"`
	FullDescription  string          `gorm:"not null" json:"full_description"`
	Amount           decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	Date             time.Time       `gorm:"column:expense_date;not null;index" json:"date"`
	UserID           string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID       *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
