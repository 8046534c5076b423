package services

import (
	"context"
	"errors"

	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/validator"
)

// categoryService handles category-related business logic.
type categoryService struct {
	categories repository.CategoryStore
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(categories repository.CategoryStore) CategoryServicer {
	return &categoryService{categories: categories}
}

// ResolveOrCreateCategory returns the category with the given name, creating
// it first when none exists. Concurrent callers creating the same name end up
// with the same record.
func (s *categoryService) ResolveOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	candidate := &models.Category{Name: name}
	if err := validator.Category(candidate); err != nil {
		return nil, err
	}

	found, err := s.categories.FindByName(ctx, name)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err)
	}

	inserted, err := s.categories.InsertIfAbsent(ctx, candidate)
	if err != nil {
		return nil, storeError(err)
	}
	if inserted {
		return candidate, nil
	}

	found, err = s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, storeError(err)
	}
	return found, nil
}
