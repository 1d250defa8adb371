package service

import (
	"context"
	"errors"
	"strings"

	"ifitness/api/internal/cache"
	"ifitness/api/internal/domain"
	"ifitness/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseExists   = errors.New("an exercise with this name already exists")
)

// ExerciseInput holds the editable catalog fields.
type ExerciseInput struct {
	Name         string
	Category     string
	MuscleGroup  string
	Difficulty   string
	Instructions string
	Equipment    string
}

type ExerciseService interface {
	ListExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	cache        cache.ExerciseCache
	logger       *zap.Logger
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, catalogCache cache.ExerciseCache, logger *zap.Logger) ExerciseService {
	if catalogCache == nil {
		catalogCache = cache.Noop{}
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		cache:        catalogCache,
		logger:       logger.Named("exercise_service"),
	}
}

// ListExercises serves the unfiltered catalog from cache when possible.
func (s *exerciseService) ListExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Difficulty != "" && !domain.IsValidDifficulty(filter.Difficulty) {
		return nil, validationError("unknown difficulty %q", filter.Difficulty)
	}
	if !filter.IsZero() {
		return s.exerciseRepo.List(ctx, filter)
	}

	exercises, err := s.cache.GetCatalog(ctx)
	if err == nil {
		return exercises, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Exercise cache read failed", zap.Error(err))
	}

	exercises, err = s.exerciseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCatalog(ctx, exercises); err != nil {
		s.logger.Warn("Exercise cache write failed", zap.Error(err))
	}
	return exercises, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (in *ExerciseInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.MuscleGroup = strings.ToLower(strings.TrimSpace(in.MuscleGroup))
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if in.Difficulty == "" {
		in.Difficulty = domain.DifficultyBeginner
	}
	switch {
	case in.Name == "":
		return validationError("name is required")
	case in.Category == "":
		return validationError("category is required")
	case in.MuscleGroup == "":
		return validationError("muscleGroup is required")
	case !domain.IsValidDifficulty(in.Difficulty):
		return validationError("difficulty must be one of beginner, intermediate, advanced")
	}
	return nil
}

func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exercise := &domain.Exercise{
		Name:         in.Name,
		Category:     in.Category,
		MuscleGroup:  in.MuscleGroup,
		Difficulty:   in.Difficulty,
		Instructions: in.Instructions,
		Equipment:    in.Equipment,
	}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	s.invalidate(ctx)
	return exercise, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	exercise.Name = in.Name
	exercise.Category = in.Category
	exercise.MuscleGroup = in.MuscleGroup
	exercise.Difficulty = in.Difficulty
	exercise.Instructions = in.Instructions
	exercise.Equipment = in.Equipment

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrExerciseNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	s.invalidate(ctx)
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *exerciseService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Exercise cache invalidation failed", zap.Error(err))
	}
}
