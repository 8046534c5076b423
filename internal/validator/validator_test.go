package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

func assertFieldBlank(t *testing.T, err error, wantDebug string) {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if !errors.Is(err, apperrors.ErrFieldBlank) {
		t.Fatalf("expected FIELD_BLANK, got %s", appErr.Code)
	}
	if appErr.Debug != wantDebug {
		t.Errorf("debug = %q\nwant    %q", appErr.Debug, wantDebug)
	}
}

func TestUser(t *testing.T) {
	tests := []struct {
		name                      string
		email, username, password string
		wantDebug                 string
	}{
		{"all_blank_reports_email", "", "", "", "User was missing value of field 'email' which is of type string"},
		{"whitespace_is_blank", "  ", "alice", "pw1", "User was missing value of field 'email' which is of type string"},
		{"missing_username", "a@b.com", "", "pw1", "User was missing value of field 'username' which is of type string"},
		{"missing_password", "a@b.com", "alice", "\t", "User was missing value of field 'password' which is of type string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFieldBlank(t, User(tt.email, tt.username, tt.password), tt.wantDebug)
		})
	}

	if err := User("a@b.com", "alice", "pw1"); err != nil {
		t.Errorf("unexpected error for valid user: %v", err)
	}
}

func TestLogin(t *testing.T) {
	assertFieldBlank(t, Login("", "pw1"), "User was missing value of field 'username' which is of type string")
	assertFieldBlank(t, Login("alice", ""), "User was missing value of field 'password' which is of type string")

	if err := Login("alice", "pw1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func validExpense() *models.Expense {
	return &models.Expense{
		ShortDescription: "Coffee",
		FullDescription:  "Morning coffee",
		Amount:           decimal.RequireFromString("4.50"),
		Date:             time.Date(2024, 11, 30, 8, 0, 0, 0, time.UTC),
		User:             &models.User{Base: models.Base{ID: "0193a3c2-0000-7000-8000-000000000001"}},
	}
}

func TestExpense(t *testing.T) {
	if err := Expense(validExpense()); err != nil {
		t.Fatalf("unexpected error for valid expense: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(e *models.Expense)
		wantDebug string
	}{
		{
			"short_description",
			func(e *models.Expense) { e.ShortDescription = " " },
			"Expense was missing value of field 'shortDescription' which is of type string",
		},
		{
			"full_description",
			func(e *models.Expense) { e.FullDescription = "" },
			"Expense was missing value of field 'fullDescription' which is of type string",
		},
		{
			"zero_amount",
			func(e *models.Expense) { e.Amount = decimal.Zero },
			"Expense was missing value of field 'amount' which is of type decimal.Decimal",
		},
		{
			"zero_date",
			func(e *models.Expense) { e.Date = time.Time{} },
			"Expense was missing value of field 'date' which is of type time.Time",
		},
		{
			"no_user",
			func(e *models.Expense) { e.User = nil },
			"Expense was missing value of field 'user' which is of type models.User",
		},
		{
			"user_without_id",
			func(e *models.Expense) { e.User = &models.User{} },
			"Expense was missing value of field 'user.id' which is of type string",
		},
		{
			"first_failure_wins",
			func(e *models.Expense) {
				e.FullDescription = ""
				e.Amount = decimal.Zero
				e.User = nil
			},
			"Expense was missing value of field 'fullDescription' which is of type string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(e)
			assertFieldBlank(t, Expense(e), tt.wantDebug)
		})
	}
}

func TestExpense_NegativeAmountIsPresent(t *testing.T) {
	e := validExpense()
	e.Amount = decimal.NewFromInt(-3)
	if err := Expense(e); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpense_AmountPrecision(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"four_places", "0.0001", false},
		{"trailing_zeros", "4.50000000", false},
		{"negative_four_places", "-12.3456", false},
		{"five_places", "4.50001", true},
		{"rounds_to_zero", "0.00004", true},
		{"below_float64", "1e-400", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			e.Amount = decimal.RequireFromString(tt.amount)

			err := Expense(e)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestExpense_TinyAmountIsPresent(t *testing.T) {
	e := validExpense()
	e.Amount = decimal.RequireFromString("1e-400")

	// non-zero, so not reported as a blank field
	if errors.Is(Expense(e), apperrors.ErrFieldBlank) {
		t.Error("a non-zero amount below float64 range must not be reported as blank")
	}
}

func TestCategory(t *testing.T) {
	assertFieldBlank(t, Category(&models.Category{}), "Category was missing value of field 'name' which is of type string")
	assertFieldBlank(t, Category(nil), "Category was missing value of field 'category' which is of type models.Category")

	if err := Category(&models.Category{Name: "Food"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
