package models

// Category represents an expense category. Name is its natural key.
type Category struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
