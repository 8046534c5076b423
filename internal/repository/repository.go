// Package repository is the persistence gateway of the expense tracker. It
// exposes per-entity stores over GORM with id-keyed CRUD and the field-based
// finders the services need. Each call is atomic on its own; nothing here spans
// multiple calls in a transaction.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Repository provides id-keyed persistence for an entity type T.
type Repository[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewRepository creates a Repository for T. Associations listed in preloads
// are loaded by FindByID.
func NewRepository[T any](db *gorm.DB, preloads ...string) *Repository[T] {
	return &Repository[T]{db: db, preloads: preloads}
}

// Save inserts entity when it has no primary key yet, otherwise fully
// replaces the stored record.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Save(entity).Error)
}

// FindByID returns the record with the given id or ErrNotFound.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.query(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// DeleteByID removes the record with the given id. Deleting a missing id is not an error.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	var entity T
	return translate(r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity).Error)
}

// Delete removes the given record.
func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Delete(entity).Error)
}

// query returns a context-bound session with the configured preloads applied.
func (r *Repository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// translate maps GORM errors onto the repository's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
