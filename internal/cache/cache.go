package cache

import (
	"context"
	"errors"

	"ifitness/api/internal/domain"
)

// ErrMiss is returned when the catalog is not cached.
var ErrMiss = errors.New("cache miss")

// ExerciseCache caches the full, unfiltered exercise catalog.
type ExerciseCache interface {
	GetCatalog(ctx context.Context) ([]domain.Exercise, error)
	SetCatalog(ctx context.Context, exercises []domain.Exercise) error
	Invalidate(ctx context.Context) error
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) GetCatalog(context.Context) ([]domain.Exercise, error) { return nil, ErrMiss }
func (Noop) SetCatalog(context.Context, []domain.Exercise) error   { return nil }
func (Noop) Invalidate(context.Context) error                      { return nil }
