package api

import (
	"context"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (string, *domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}
func (m *MockAuthService) ParseToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}
func (m *MockAuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockWorkoutService struct{ mock.Mock }

func (m *MockWorkoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.Workout), args.Error(1)
}
func (m *MockWorkoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	args := m.Called(ctx, userID, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workout), args.Error(1)
}
func (m *MockWorkoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, []domain.Achievement, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	earned, _ := args.Get(1).([]domain.Achievement)
	return args.Get(0).(*domain.Workout), earned, args.Error(2)
}
func (m *MockWorkoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, error) {
	args := m.Called(ctx, userID, workoutID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workout), args.Error(1)
}
func (m *MockWorkoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	return m.Called(ctx, userID, workoutID).Error(0)
}
func (m *MockWorkoutService) GetStats(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutStats), args.Error(1)
}
func (m *MockWorkoutService) SyncAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

type MockEventService struct{ mock.Mock }

func eventViewResult(args mock.Arguments) (*service.EventView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventView), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context, kind domain.EventKind, status domain.EventStatus) ([]service.EventView, error) {
	args := m.Called(ctx, kind, status)
	return args.Get(0).([]service.EventView), args.Error(1)
}
func (m *MockEventService) Current(ctx context.Context, kind domain.EventKind) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind))
}
func (m *MockEventService) Mine(ctx context.Context, kind domain.EventKind, userID primitive.ObjectID) ([]service.EventView, error) {
	args := m.Called(ctx, kind, userID)
	return args.Get(0).([]service.EventView), args.Error(1)
}
func (m *MockEventService) Get(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind, id))
}
func (m *MockEventService) Create(ctx context.Context, kind domain.EventKind, adminID primitive.ObjectID, in service.EventInput) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind, adminID, in))
}
func (m *MockEventService) Update(ctx context.Context, kind domain.EventKind, id primitive.ObjectID, in service.EventInput) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind, id, in))
}
func (m *MockEventService) Delete(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) error {
	return m.Called(ctx, kind, id).Error(0)
}
func (m *MockEventService) Cancel(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind, id))
}
func (m *MockEventService) Accept(ctx context.Context, kind domain.EventKind, id, userID primitive.ObjectID) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind, id, userID))
}
func (m *MockEventService) Decline(ctx context.Context, kind domain.EventKind, id, userID primitive.ObjectID) (*service.EventView, error) {
	return eventViewResult(m.Called(ctx, kind, id, userID))
}
func (m *MockEventService) Invite(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (int, error) {
	args := m.Called(ctx, kind, id)
	return args.Int(0), args.Error(1)
}
func (m *MockEventService) Remind(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (int, error) {
	args := m.Called(ctx, kind, id)
	return args.Int(0), args.Error(1)
}

type MockAdminService struct{ mock.Mock }

func userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockAdminService) GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	return userResult(m.Called(ctx, userID))
}
func (m *MockAdminService) Stats(ctx context.Context) (*service.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminStats), args.Error(1)
}
func (m *MockAdminService) SuspendUser(ctx context.Context, adminID, userID primitive.ObjectID, reason string) (*domain.User, error) {
	return userResult(m.Called(ctx, adminID, userID, reason))
}
func (m *MockAdminService) UnsuspendUser(ctx context.Context, adminID, userID primitive.ObjectID) (*domain.User, error) {
	return userResult(m.Called(ctx, adminID, userID))
}
func (m *MockAdminService) SetRoutine(ctx context.Context, userID primitive.ObjectID, routine []domain.RoutineDay) (*domain.User, error) {
	return userResult(m.Called(ctx, userID, routine))
}
func (m *MockAdminService) DeleteUser(ctx context.Context, adminID, userID primitive.ObjectID) (*service.DeleteUserResult, error) {
	args := m.Called(ctx, adminID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteUserResult), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	return userResult(m.Called(ctx, userID))
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string, profile domain.Profile) (*domain.User, error) {
	return userResult(m.Called(ctx, userID, name, profile))
}
func (m *MockUserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	return m.Called(ctx, userID, currentPassword, newPassword).Error(0)
}
func (m *MockUserService) GetRoutine(ctx context.Context, userID primitive.ObjectID) ([]domain.RoutineDay, error) {
	args := m.Called(ctx, userID)
	routine, _ := args.Get(0).([]domain.RoutineDay)
	return routine, args.Error(1)
}
func (m *MockUserService) GetTodayRoutine(ctx context.Context, userID primitive.ObjectID) (*service.TodayRoutine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TodayRoutine), args.Error(1)
}
func (m *MockUserService) ListGoals(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	args := m.Called(ctx, userID)
	goals, _ := args.Get(0).([]domain.Goal)
	return goals, args.Error(1)
}
func (m *MockUserService) CreateGoal(ctx context.Context, userID primitive.ObjectID, in service.GoalInput) (*domain.Goal, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}
func (m *MockUserService) UpdateGoal(ctx context.Context, userID, goalID primitive.ObjectID, in service.GoalUpdate) (*domain.Goal, error) {
	args := m.Called(ctx, userID, goalID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}
func (m *MockUserService) DeleteGoal(ctx context.Context, userID, goalID primitive.ObjectID) error {
	return m.Called(ctx, userID, goalID).Error(0)
}
func (m *MockUserService) GetAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	args := m.Called(ctx, userID)
	achievements, _ := args.Get(0).([]domain.Achievement)
	return achievements, args.Error(1)
}
func (m *MockUserService) UploadProgressImage(ctx context.Context, userID primitive.ObjectID, upload service.ImageUpload) (*service.ProgressImageView, error) {
	args := m.Called(ctx, userID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProgressImageView), args.Error(1)
}
func (m *MockUserService) ListProgressImages(ctx context.Context, userID primitive.ObjectID, tag string) ([]service.ProgressImageView, error) {
	args := m.Called(ctx, userID, tag)
	images, _ := args.Get(0).([]service.ProgressImageView)
	return images, args.Error(1)
}
func (m *MockUserService) DeleteProgressImage(ctx context.Context, userID, imageID primitive.ObjectID) error {
	return m.Called(ctx, userID, imageID).Error(0)
}

type MockExerciseService struct{ mock.Mock }

func (m *MockExerciseService) ListExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) CreateExercise(ctx context.Context, in service.ExerciseInput) (*domain.Exercise, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, in service.ExerciseInput) (*domain.Exercise, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}
func (m *MockExerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
