package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"expensetracker/internal/models"
)

// UserStore persists users together with their role links.
type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	DeleteByID(ctx context.Context, id string) error
	Delete(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RoleStore looks up seeded roles.
type RoleStore interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByValue(ctx context.Context, value string) (*models.Role, error)
}

// CategoryStore persists categories keyed by their name.
type CategoryStore interface {
	Save(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	InsertIfAbsent(ctx context.Context, category *models.Category) (bool, error)
}

// ExpenseStore persists expenses and answers the per-user queries.
type ExpenseStore interface {
	Save(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id string) (*models.Expense, error)
	DeleteByID(ctx context.Context, id string) error
	Delete(ctx context.Context, expense *models.Expense) error
	FindByUserID(ctx context.Context, userID string) ([]models.Expense, error)
	FindByUserIDAndCategoryName(ctx context.Context, userID, categoryName string) ([]models.Expense, error)
	FindByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Expense, error)
}

type userRepository struct {
	*Repository[models.User]
}

// NewUserStore creates a UserStore backed by db.
func NewUserStore(db *gorm.DB) UserStore {
	return &userRepository{Repository: NewRepository[models.User](db, "Roles")}
}

// DeleteByID removes the user and its role links.
func (r *userRepository) DeleteByID(ctx context.Context, id string) error {
	user := &models.User{Base: models.Base{ID: id}}
	return r.Delete(ctx, user)
}

// Delete removes the user and its role links.
func (r *userRepository) Delete(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Select("Roles").Delete(user).Error)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.query(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

type roleRepository struct {
	*Repository[models.Role]
}

// NewRoleStore creates a RoleStore backed by db.
func NewRoleStore(db *gorm.DB) RoleStore {
	return &roleRepository{Repository: NewRepository[models.Role](db)}
}

func (r *roleRepository) FindByValue(ctx context.Context, value string) (*models.Role, error) {
	var role models.Role
	if err := r.query(ctx).Where("value = ?", value).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

type categoryRepository struct {
	*Repository[models.Category]
}

// NewCategoryStore creates a CategoryStore backed by db.
func NewCategoryStore(db *gorm.DB) CategoryStore {
	return &categoryRepository{Repository: NewRepository[models.Category](db)}
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.query(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// InsertIfAbsent inserts category unless a category with the same name
// exists. It reports whether a row was inserted.
func (r *categoryRepository) InsertIfAbsent(ctx context.Context, category *models.Category) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(category)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

type expenseRepository struct {
	*Repository[models.Expense]
}

// NewExpenseStore creates an ExpenseStore backed by db.
func NewExpenseStore(db *gorm.DB) ExpenseStore {
	return &expenseRepository{Repository: NewRepository[models.Expense](db, "Category")}
}

// Save writes the expense row only; the user and category it references must
// already be persisted.
func (r *expenseRepository) Save(ctx context.Context, expense *models.Expense) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(expense).Error)
}

func (r *expenseRepository) FindByUserID(ctx context.Context, userID string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.query(ctx).
		Where("user_id = ?", userID).
		Order("expense_date ASC").
		Find(&expenses).Error
	return expenses, translate(err)
}

func (r *expenseRepository) FindByUserIDAndCategoryName(ctx context.Context, userID, categoryName string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.query(ctx).
		Select("expenses.*").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND categories.name = ?", userID, categoryName).
		Order("expenses.expense_date ASC").
		Find(&expenses).Error
	return expenses, translate(err)
}

// FindByUserIDAndDateRange returns the user's expenses dated in [start, end).
func (r *expenseRepository) FindByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.query(ctx).
		Where("user_id = ? AND expense_date >= ? AND expense_date < ?", userID, start, end).
		Order("expense_date ASC").
		Find(&expenses).Error
	return expenses, translate(err)
}
