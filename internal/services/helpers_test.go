package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"expensetracker/internal/credentials"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/repository"
	"expensetracker/internal/testutil"
)

var testKey = []byte("services-test-signing-key")

// testServices bundles the services under test around one database.
type testServices struct {
	db         *gorm.DB
	creds      *credentials.Service
	users      UserServicer
	categories CategoryServicer
	expenses   *expenseService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	creds, err := credentials.NewService(credentials.Config{Key: testKey, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}

	users := NewUserService(repository.NewUserStore(db), repository.NewRoleStore(db), creds)
	categories := NewCategoryService(repository.NewCategoryStore(db))
	expenses := NewExpenseService(repository.NewExpenseStore(db), users, categories).(*expenseService)

	return &testServices{
		db:         db,
		creds:      creds,
		users:      users,
		categories: categories,
		expenses:   expenses,
	}
}

// at pins the expense service clock.
func (s *testServices) at(now time.Time) {
	s.expenses.now = func() time.Time { return now }
}

// assertDebugNames checks that a FieldBlank error names the given field.
func assertDebugNames(t *testing.T, err error, field string) {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if !strings.Contains(appErr.Debug, "field '"+field+"'") {
		t.Errorf("expected debug to name %q, got %q", field, appErr.Debug)
	}
}
