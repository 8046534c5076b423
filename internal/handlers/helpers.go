package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
)

// timestampLayouts are tried in order when reading a date-time from a request.
// Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a date-time in a request body.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts RFC 3339 and zone-less ISO 8601 date-times.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q", s)
}

// actor returns the username of the authenticated caller.
func actor(c *gin.Context) string {
	return c.GetString(middleware.ContextUsername)
}

// respondWithError writes the error envelope for err and aborts the request.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// badRequest reports a malformed request body or query.
func badRequest(c *gin.Context, err error) {
	respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Malformed request: "+err.Error()))
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Roles: u.RoleValues()}
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newCategoryResponse(c *models.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name}
}

// ExpenseResponse is the public view of an expense.
type ExpenseResponse struct {
	ID               string            `json:"id"`
	ShortDescription string            `json:"shortDescription"`
	FullDescription  string            `json:"fullDescription"`
	Amount           float64           `json:"amount"`
	Date             time.Time         `json:"date"`
	Category         *CategoryResponse `json:"category"`
	UserID           string            `json:"userId"`
}

func newExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:               e.ID,
		ShortDescription: e.ShortDescription,
		FullDescription:  e.FullDescription,
		Amount:           e.Amount.InexactFloat64(),
		Date:             e.Date.UTC(),
		Category:         newCategoryResponse(e.Category),
		UserID:           e.UserID,
	}
}

func newExpenseResponses(expenses []models.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, newExpenseResponse(&expenses[i]))
	}
	return out
}
