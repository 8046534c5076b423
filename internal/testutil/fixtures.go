package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"expensetracker/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a USER with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a USER with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string, roles ...string) *models.User {
	t.Helper()

	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@test.com",
		Password: string(hash),
	}
	for _, value := range roles {
		var role models.Role
		if err := db.Where("value = ?", value).First(&role).Error; err != nil {
			t.Fatalf("role %s not seeded: %v", value, err)
		}
		user.Roles = append(user.Roles, role)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense of the given amount for userID dated at date.
// categoryID may be nil.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, categoryID *string, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ShortDescription: fmt.Sprintf("Expense %d", nextID()),
		FullDescription:  "Test expense",
		Amount:           decimal.RequireFromString(amount),
		Date:             date.UTC(),
		UserID:           userID,
		CategoryID:       categoryID,
	}
	if err := db.Omit("User", "Category").Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
