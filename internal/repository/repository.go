package repository

import (
	"context"
	"time"

	"ifitness/api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	ErrConflict  = RepositoryError("conflicting update")
	ErrCapacity  = RepositoryError("capacity reached")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error) // not suspended
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	Count(ctx context.Context) (total int64, suspended int64, err error)

	UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, profile domain.Profile) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	// SetSuspension suspends (reason != "" required) or reinstates a user in one write,
	// keeping suspended, suspendedReason and suspendedAt consistent.
	SetSuspension(ctx context.Context, id primitive.ObjectID, suspended bool, reason string, at time.Time) error
	SetRoutine(ctx context.Context, id primitive.ObjectID, routine []domain.RoutineDay) error
	// Goals are edited one element at a time so concurrent edits of
	// different goals don't overwrite each other. ReplaceGoal and RemoveGoal
	// return ErrNotFound when the user or the goal is missing.
	AddGoal(ctx context.Context, id primitive.ObjectID, goal domain.Goal) error
	ReplaceGoal(ctx context.Context, id primitive.ObjectID, goal domain.Goal) error
	RemoveGoal(ctx context.Context, id, goalID primitive.ObjectID) error
	AddAchievements(ctx context.Context, id primitive.ObjectID, achievements []domain.Achievement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
// Every read and write is scoped to the owning user.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.WorkoutFilter) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ExerciseRepository defines the interface for the shared exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EventRepository stores bootcamps and outdoor activities.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	SetCancelled(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) error
	Delete(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) error
	// AddAcceptance records an acceptance unless the user already accepted
	// (ErrConflict) or the stored maxParticipants is reached (ErrCapacity).
	// A previous decline is replaced.
	AddAcceptance(ctx context.Context, id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID, at time.Time) error
	// SetDecline replaces any answer of the user with a decline.
	SetDecline(ctx context.Context, id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID, at time.Time) error
	RemoveParticipant(ctx context.Context, userID primitive.ObjectID) error
	CountAccepted(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// ProgressImageRepository stores progress image metadata.
type ProgressImageRepository interface {
	Create(ctx context.Context, image *domain.ProgressImage) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.ProgressImage, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, tag string) ([]domain.ProgressImage, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
