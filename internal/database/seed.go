package database

import (
	"fmt"

	"gorm.io/gorm"

	"expensetracker/internal/models"
)

// DefaultRoles are the role values every deployment must provide.
var DefaultRoles = []string{models.RoleUser, models.RoleAdmin}

// SeedRoles makes sure every default role exists. It is idempotent.
func SeedRoles(db *gorm.DB) error {
	for _, value := range DefaultRoles {
		role := models.Role{Value: value}
		if err := db.Where("value = ?", value).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", value, err)
		}
	}
	return nil
}
