package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/events"
	"ifitness/api/internal/platform/metrics"
	"ifitness/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutInput holds the fields a user submits when logging a workout.
type WorkoutInput struct {
	Name           string
	Description    string
	Duration       int
	CaloriesBurned int
	Date           time.Time
	Exercises      []domain.WorkoutExercise
	Notes          string
}

type WorkoutService interface {
	ListWorkouts(ctx context.Context, userID primitive.ObjectID, filter domain.WorkoutFilter) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	// CreateWorkout also returns achievements earned by this workout.
	CreateWorkout(ctx context.Context, userID primitive.ObjectID, in WorkoutInput) (*domain.Workout, []domain.Achievement, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error
	GetStats(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutStats, error)
	// SyncAchievements stores achievements the user has earned but not yet
	// received and returns them.
	SyncAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	eventRepo   repository.EventRepository
	publisher   events.Publisher
	metrics     *metrics.Manager
	logger      *zap.Logger
	now         func() time.Time
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	publisher events.Publisher,
	m *metrics.Manager,
	logger *zap.Logger,
) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
		metrics:     m,
		logger:      logger.Named("workout_service"),
		now:         time.Now,
	}
}

func (in *WorkoutInput) validate(now time.Time) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return validationError("name is required")
	}
	if in.Duration < 0 || in.Duration > 24*60 {
		return validationError("duration must be between 0 and 1440 minutes")
	}
	if in.CaloriesBurned < 0 {
		return validationError("caloriesBurned cannot be negative")
	}
	if in.Date.IsZero() {
		in.Date = now
	}
	for i := range in.Exercises {
		e := &in.Exercises[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return validationError("exercise %d: name is required", i+1)
		}
		if e.Sets < 0 || e.Reps < 0 || e.Weight < 0 || e.Duration < 0 {
			return validationError("exercise %d: values cannot be negative", i+1)
		}
	}
	if in.Exercises == nil {
		in.Exercises = []domain.WorkoutExercise{}
	}
	return nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, validationError("'to' must not be before 'from'")
	}
	return s.workoutRepo.ListByUser(ctx, userID, filter)
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, in WorkoutInput) (*domain.Workout, []domain.Achievement, error) {
	if err := in.validate(s.now()); err != nil {
		return nil, nil, err
	}

	workout := &domain.Workout{
		UserID:         userID,
		Name:           in.Name,
		Description:    in.Description,
		Duration:       in.Duration,
		CaloriesBurned: in.CaloriesBurned,
		Date:           in.Date.UTC(),
		Exercises:      in.Exercises,
		Notes:          in.Notes,
	}
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, nil, err
	}

	s.metrics.WorkoutsLogged.Inc()
	publish(ctx, s.publisher, s.logger, events.SubjectWorkoutLogged, events.WorkoutEvent{
		WorkoutID: workout.ID.Hex(),
		UserID:    userID.Hex(),
		Duration:  workout.Duration,
		Calories:  workout.CaloriesBurned,
	})

	// The workout is already stored; an achievement failure must not fail the request.
	earned, err := s.SyncAchievements(ctx, userID)
	if err != nil {
		s.logger.Warn("Achievement sync failed", zap.String("user_id", userID.Hex()), zap.Error(err))
		earned = nil
	}
	return workout, earned, nil
}

func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	existing, err := s.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = existing.Date
	}
	if err := in.validate(s.now()); err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Duration = in.Duration
	existing.CaloriesBurned = in.CaloriesBurned
	existing.Date = in.Date.UTC()
	existing.Exercises = in.Exercises
	existing.Notes = in.Notes

	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if err := s.workoutRepo.Delete(ctx, workoutID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

func (s *workoutService) GetStats(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutStats, error) {
	workouts, err := s.workoutRepo.ListByUser(ctx, userID, domain.WorkoutFilter{})
	if err != nil {
		return nil, err
	}
	stats := domain.ComputeStats(workouts, s.now())

	joined, err := s.eventRepo.CountAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.EventsJoined = int(joined)
	return &stats, nil
}

func (s *workoutService) SyncAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := domain.NewAchievements(*stats, user.Achievements, s.now())
	if len(earned) == 0 {
		return []domain.Achievement{}, nil
	}
	if err := s.userRepo.AddAchievements(ctx, userID, earned); err != nil {
		return nil, err
	}
	s.logger.Info("Achievements earned", zap.String("user_id", userID.Hex()), zap.Int("count", len(earned)))
	return earned, nil
}
