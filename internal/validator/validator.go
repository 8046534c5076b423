// Package validator checks the required fields of users, logins, expenses and
// categories before the services touch the store.
//
// Fields are checked in a fixed order and only the first failure is reported,
// as a FieldBlank error naming the entity, the field and its declared type.
// Expense amounts must also fit the stored scale.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// engine returns the shared validator instance.
func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("notblank", validators.NotBlank)

		// required on an amount means non-zero
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.Sign()
			}
			return nil
		}, decimal.Decimal{})

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("field"); name != "" {
				return name
			}
			return fld.Name
		})
		validate = v
	})
	return validate
}

type userFields struct {
	Email    string `field:"email" validate:"notblank"`
	Username string `field:"username" validate:"notblank"`
	Password string `field:"password" validate:"notblank"`
}

type loginFields struct {
	Username string `field:"username" validate:"notblank"`
	Password string `field:"password" validate:"notblank"`
}

// expenseFields mirrors models.Expense. The declaration order is the check order.
type expenseFields struct {
	ShortDescription string          `field:"shortDescription" validate:"notblank"`
	FullDescription  string          `field:"fullDescription" validate:"notblank"`
	Amount           decimal.Decimal `field:"amount" validate:"required"`
	Date             time.Time       `field:"date" validate:"required"`
	User             *models.User    `field:"user" validate:"required"`
	UserID           string          `field:"user.id" validate:"notblank"`
}

type categoryFields struct {
	Name string `field:"name" validate:"notblank"`
}

// User checks the fields required to register or update a user.
func User(email, username, password string) error {
	return check(models.EntityUser, userFields{Email: email, Username: username, Password: password})
}

// Login checks the fields required to log in.
func Login(username, password string) error {
	return check(models.EntityUser, loginFields{Username: username, Password: password})
}

// Expense checks that e carries every required field and an owning user with an id.
func Expense(e *models.Expense) error {
	if e == nil {
		return apperrors.FieldBlank(models.EntityExpense, "expense", "models.Expense")
	}

	fields := expenseFields{
		ShortDescription: e.ShortDescription,
		FullDescription:  e.FullDescription,
		Amount:           e.Amount,
		Date:             e.Date,
		User:             e.User,
	}
	if e.User != nil {
		fields.UserID = e.User.ID
	}
	if err := check(models.EntityExpense, fields); err != nil {
		return err
	}

	// the store would round finer amounts, possibly down to zero
	if !e.Amount.Equal(e.Amount.Round(models.AmountScale)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("amount %s has more than %d decimal places", e.Amount, models.AmountScale))
	}
	return nil
}

// Category checks that c has a name.
func Category(c *models.Category) error {
	if c == nil {
		return apperrors.FieldBlank(models.EntityCategory, "category", "models.Category")
	}
	return check(models.EntityCategory, categoryFields{Name: c.Name})
}

// check validates s and converts the first failure into a FieldBlank error.
func check(entity string, s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	first := verrs[0]
	return apperrors.FieldBlank(entity, first.Field(), declaredType(s, first.StructField()))
}

// declaredType returns the type name of the named field of s as written in the
// struct, before any custom type conversion.
func declaredType(s interface{}, name string) string {
	f, ok := reflect.TypeOf(s).FieldByName(name)
	if !ok {
		return "unknown"
	}
	return strings.TrimPrefix(f.Type.String(), "*")
}
