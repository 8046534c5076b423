package services

import (
	"context"
	"time"

	"expensetracker/internal/credentials"
	"expensetracker/internal/models"
)

// Credentials hashes passwords and issues tokens for the user service.
type Credentials interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, hash string) bool
	IssueToken(subject string, roles []string) (*credentials.Token, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, email, username, password string, roleNames []string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*credentials.Token, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserIDByUsername(ctx context.Context, username string) (string, error)
	UpdateUser(ctx context.Context, id, email, username, password string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (*models.User, error)
	GrantAdmin(ctx context.Context, id string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ResolveOrCreateCategory(ctx context.Context, name string) (*models.Category, error)
}

// Period is a trailing window of expenses ending now.
type Period string

const (
	PastWeek        Period = "past-week"
	PastMonth       Period = "past-month"
	PastThreeMonths Period = "past-three-months"
)

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, userID string, draft *models.Expense) (*models.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*models.Expense, error)
	ListExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error)
	ListExpensesByCategory(ctx context.Context, userID, categoryName string) ([]models.Expense, error)
	ListExpensesInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Expense, error)
	ListExpensesForPeriod(ctx context.Context, userID string, period Period) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, id string, draft *models.Expense) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) (*models.Expense, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, actor, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
