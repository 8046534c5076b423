package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	resolveOrCreateFn func(name string) (*models.Category, error)
}

func (m *mockCategoryService) ResolveOrCreateCategory(_ context.Context, name string) (*models.Category, error) {
	if m.resolveOrCreateFn != nil {
		return m.resolveOrCreateFn(name)
	}
	return &models.Category{Name: name}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/categories/:name", handler.CreateCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns category", func(t *testing.T) {
		catSvc := &mockCategoryService{
			resolveOrCreateFn: func(name string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: "c1"}, Name: name}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories/Food", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["id"] != "c1" || result["name"] != "Food" {
			t.Errorf("unexpected body %v", result)
		}
	})

	t.Run("returns 400 on blank name", func(t *testing.T) {
		catSvc := &mockCategoryService{
			resolveOrCreateFn: func(string) (*models.Category, error) {
				return nil, apperrors.FieldBlank("Category", "name", "string")
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories/%20", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertAPIError(t, parseJSON(t, rec), "BAD_REQUEST")
	})
}
