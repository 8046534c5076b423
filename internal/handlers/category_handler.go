package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory returns the category with the given name, creating it if needed
// @Summary     Create a category
// @Description Idempotent: an existing category with the same name is returned unchanged. Requires an ADMIN token.
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Category name"
// @Success     200 {object} CategoryResponse
// @Failure     400 {object} errors.Envelope "Blank name"
// @Failure     403 {object} errors.Envelope "Caller is not an admin"
// @Router      /categories/{name} [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	category, err := h.categoryService.ResolveOrCreateCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}
