package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CategoryRequest names the category of an expense
type CategoryRequest struct {
	Name string `json:"name"`
}

// ExpenseRequest represents the expense create and update payload.
// UserID is only read on update; on create the owner comes from the path.
type ExpenseRequest struct {
	ShortDescription string           `json:"shortDescription"`
	FullDescription  string           `json:"fullDescription"`
	Amount           *decimal.Decimal `json:"amount" swaggertype:"number"`
	Date             *Timestamp       `json:"date" swaggertype:"string" format:"date-time"`
	Category         *CategoryRequest `json:"category"`
	UserID           string           `json:"userId"`
}

// toModel builds an unresolved expense draft from the request.
func (r *ExpenseRequest) toModel() *models.Expense {
	e := &models.Expense{
		ShortDescription: r.ShortDescription,
		FullDescription:  r.FullDescription,
	}
	if r.Amount != nil {
		e.Amount = *r.Amount
	}
	if r.Date != nil {
		e.Date = r.Date.Time
	}
	if r.Category != nil {
		e.Category = &models.Category{Name: r.Category.Name}
	}
	if r.UserID != "" {
		e.User = &models.User{Base: models.Base{ID: r.UserID}}
	}
	return e
}

// RangeQuery holds the bounds of a custom date range
type RangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// CreateExpense records an expense for a user
// @Summary     Create an expense
// @Description Required fields: shortDescription, fullDescription, amount (non-zero), date. A category is matched by name and created when missing.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "User ID"
// @Param       request body ExpenseRequest true "Expense"
// @Success     201 {object} ExpenseResponse
// @Failure     400 {object} errors.Envelope "Missing required field"
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/{id}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), c.Param("id"), req.toModel())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newExpenseResponse(expense))
}

// GetExpense returns an expense by id
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse
// @Failure     404 {object} errors.Envelope "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponse(expense))
}

// ListExpensesForUser returns every expense of a user
// @Summary     List a user's expenses
// @Description Returns 404 when the user has no expenses.
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {array}  ExpenseResponse
// @Failure     404 {object} errors.Envelope "User or expenses not found"
// @Router      /users/{id}/expenses [get]
func (h *ExpenseHandler) ListExpensesForUser(c *gin.Context) {
	expenses, err := h.expenseService.ListExpensesForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponses(expenses))
}

// ListExpensesByCategory returns a user's expenses in one category
// @Summary     List a user's expenses by category
// @Description Returns an empty list when nothing matches.
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string true "User ID"
// @Param       name path string true "Category name"
// @Success     200 {array}  ExpenseResponse
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/{id}/expenses/category/{name} [get]
func (h *ExpenseHandler) ListExpensesByCategory(c *gin.Context) {
	expenses, err := h.expenseService.ListExpensesByCategory(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponses(expenses))
}

// ListExpensesInRange returns a user's expenses in a custom date range
// @Summary     List a user's expenses in a date range
// @Description start is inclusive, end is exclusive. Both accept RFC 3339 or zone-less ISO 8601 (read as UTC).
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true "User ID"
// @Param       start query string true "Start of the range" example(2024-11-01T00:00:00)
// @Param       end   query string true "End of the range" example(2024-12-01T00:00:00)
// @Success     200 {array}  ExpenseResponse
// @Failure     400 {object} errors.Envelope "Invalid range"
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/{id}/expenses/range [get]
func (h *ExpenseHandler) ListExpensesInRange(c *gin.Context) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	start, err := parseTimestamp(q.Start)
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := parseTimestamp(q.End)
	if err != nil {
		badRequest(c, err)
		return
	}

	expenses, err := h.expenseService.ListExpensesInRange(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponses(expenses))
}

// ListExpensesForPeriod returns a handler listing a user's expenses from the
// start of the day one period ago until now.
// @Summary     List a user's recent expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {array}  ExpenseResponse
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/{id}/expenses/past-week [get]
// @Router      /users/{id}/expenses/past-month [get]
// @Router      /users/{id}/expenses/past-three-months [get]
func (h *ExpenseHandler) ListExpensesForPeriod(period services.Period) gin.HandlerFunc {
	return func(c *gin.Context) {
		expenses, err := h.expenseService.ListExpensesForPeriod(c.Request.Context(), c.Param("id"), period)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newExpenseResponses(expenses))
	}
}

// UpdateExpense replaces an expense
// @Summary     Update an expense
// @Description Full replacement. Required fields: shortDescription, fullDescription, amount (non-zero), date, userId.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body ExpenseRequest true "Expense"
// @Success     200 {object} ExpenseResponse
// @Failure     400 {object} errors.Envelope "Missing required field"
// @Failure     404 {object} errors.Envelope "Expense or user not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), c.Param("id"), req.toModel())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExpenseResponse(expense))
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse "The deleted expense"
// @Failure     404 {object} errors.Envelope "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expense, err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor(c), services.AuditDeleteExpense, "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"user_id": expense.UserID, "amount": expense.Amount.String()})

	c.JSON(http.StatusOK, newExpenseResponse(expense))
}
