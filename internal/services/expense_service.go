package services

import (
	"context"
	"errors"
	"time"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/uuid"
	"expensetracker/internal/validator"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	expenses   repository.ExpenseStore
	users      UserServicer
	categories CategoryServicer
	now        func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(expenses repository.ExpenseStore, users UserServicer, categories CategoryServicer) ExpenseServicer {
	return &expenseService{
		expenses:   expenses,
		users:      users,
		categories: categories,
		now:        time.Now,
	}
}

// CreateExpense attaches the owning user to draft, validates it, resolves its
// category by name and stores it as a new expense.
func (s *expenseService) CreateExpense(ctx context.Context, userID string, draft *models.Expense) (*models.Expense, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		draft = &models.Expense{}
	}
	draft.User = user
	draft.UserID = user.ID

	if err := validator.Expense(draft); err != nil {
		return nil, err
	}

	if err := s.attachCategory(ctx, draft); err != nil {
		return nil, err
	}

	draft.ID = ""
	draft.Date = draft.Date.UTC()
	if err := s.expenses.Save(ctx, draft); err != nil {
		return nil, storeError(err)
	}
	return draft, nil
}

// GetExpenseByID retrieves an expense by ID
func (s *expenseService) GetExpenseByID(ctx context.Context, id string) (*models.Expense, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.EntityNotFound(models.EntityExpense, "id", id)
	}

	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.EntityNotFound(models.EntityExpense, "id", id)
		}
		return nil, storeError(err)
	}
	return expense, nil
}

// ListExpensesForUser returns every expense of a user. A user without
// expenses is reported as not found.
func (s *expenseService) ListExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	expenses, err := s.expenses.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if len(expenses) == 0 {
		return nil, apperrors.EntityNotFound(models.EntityExpense, "user.id", userID)
	}
	return expenses, nil
}

// ListExpensesByCategory returns the user's expenses in the named category,
// possibly none.
func (s *expenseService) ListExpensesByCategory(ctx context.Context, userID, categoryName string) ([]models.Expense, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	expenses, err := s.expenses.FindByUserIDAndCategoryName(ctx, userID, categoryName)
	if err != nil {
		return nil, storeError(err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// ListExpensesInRange returns the user's expenses dated in [start, end).
func (s *expenseService) ListExpensesInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Expense, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}

	expenses, err := s.expenses.FindByUserIDAndDateRange(ctx, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, storeError(err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// ListExpensesForPeriod returns the user's expenses from the start of the day
// one period ago up to now.
func (s *expenseService) ListExpensesForPeriod(ctx context.Context, userID string, period Period) ([]models.Expense, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start time.Time
	switch period {
	case PastWeek:
		start = today.AddDate(0, 0, -7)
	case PastMonth:
		start = today.AddDate(0, -1, 0)
	case PastThreeMonths:
		start = today.AddDate(0, -3, 0)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown period "+string(period))
	}

	return s.ListExpensesInRange(ctx, userID, start, now)
}

// UpdateExpense fully replaces an existing expense with draft. The draft must
// name its owning user, which is resolved again.
func (s *expenseService) UpdateExpense(ctx context.Context, id string, draft *models.Expense) (*models.Expense, error) {
	if err := validator.Expense(draft); err != nil {
		return nil, err
	}

	existing, err := s.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, draft.User.ID)
	if err != nil {
		return nil, err
	}

	draft.ID = existing.ID
	draft.CreatedAt = existing.CreatedAt
	draft.User = user
	draft.UserID = user.ID
	draft.Date = draft.Date.UTC()

	if err := s.attachCategory(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.expenses.Save(ctx, draft); err != nil {
		return nil, storeError(err)
	}
	return draft, nil
}

// DeleteExpense removes an expense and returns the deleted record.
func (s *expenseService) DeleteExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.expenses.DeleteByID(ctx, expense.ID); err != nil {
		return nil, storeError(err)
	}
	return expense, nil
}

// attachCategory swaps the draft's category for the stored one with the same
// name, creating it when needed. Any id supplied with the category is ignored.
func (s *expenseService) attachCategory(ctx context.Context, draft *models.Expense) error {
	if draft.Category == nil {
		draft.CategoryID = nil
		return nil
	}

	category, err := s.categories.ResolveOrCreateCategory(ctx, draft.Category.Name)
	if err != nil {
		return err
	}
	draft.Category = category
	draft.CategoryID = &category.ID
	return nil
}
