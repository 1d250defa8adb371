package service

import (
	"context"
	"io"
	"time"

	"ifitness/api/internal/domain"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	id := args.Get(0).(primitive.ObjectID)
	if args.Error(1) == nil {
		user.ID = id
	}
	return id, args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so services mutating the result don't affect later calls.
	u := *args.Get(0).(*domain.User)
	return &u, args.Error(1)
}
func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepository) Count(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
func (m *MockUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, profile domain.Profile) error {
	return m.Called(ctx, id, name, profile).Error(0)
}
func (m *MockUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *MockUserRepository) SetSuspension(ctx context.Context, id primitive.ObjectID, suspended bool, reason string, at time.Time) error {
	return m.Called(ctx, id, suspended, reason, at).Error(0)
}
func (m *MockUserRepository) SetRoutine(ctx context.Context, id primitive.ObjectID, routine []domain.RoutineDay) error {
	return m.Called(ctx, id, routine).Error(0)
}
func (m *MockUserRepository) AddGoal(ctx context.Context, id primitive.ObjectID, goal domain.Goal) error {
	return m.Called(ctx, id, goal).Error(0)
}
func (m *MockUserRepository) ReplaceGoal(ctx context.Context, id primitive.ObjectID, goal domain.Goal) error {
	return m.Called(ctx, id, goal).Error(0)
}
func (m *MockUserRepository) RemoveGoal(ctx context.Context, id, goalID primitive.ObjectID) error {
	return m.Called(ctx, id, goalID).Error(0)
}
func (m *MockUserRepository) AddAchievements(ctx context.Context, id primitive.ObjectID, achievements []domain.Achievement) error {
	return m.Called(ctx, id, achievements).Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockWorkoutRepository struct{ mock.Mock }

func (m *MockWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	args := m.Called(ctx, workout)
	id := args.Get(0).(primitive.ObjectID)
	if args.Error(1) == nil {
		workout.ID = id
	}
	return id, args.Error(1)
}
func (m *MockWorkoutRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workout), args.Error(1)
}
func (m *MockWorkoutRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.Workout), args.Error(1)
}
func (m *MockWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	return m.Called(ctx, workout).Error(0)
}
func (m *MockWorkoutRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return m.Called(ctx, id, userID).Error(0)
}
func (m *MockWorkoutRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWorkoutRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockExerciseRepository struct{ mock.Mock }

func (m *MockExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	args := m.Called(ctx, exercise)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}
func (m *MockExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}
func (m *MockExerciseRepository) List(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Exercise), args.Error(1)
}
func (m *MockExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	return m.Called(ctx, exercise).Error(0)
}
func (m *MockExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) (primitive.ObjectID, error) {
	args := m.Called(ctx, event)
	id := args.Get(0).(primitive.ObjectID)
	if args.Error(1) == nil {
		event.ID = id
	}
	return id, args.Error(1)
}
func (m *MockEventRepository) GetByID(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) (*domain.Event, error) {
	args := m.Called(ctx, id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	e := *args.Get(0).(*domain.Event)
	return &e, args.Error(1)
}
func (m *MockEventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	return m.Called(ctx, event).Error(0)
}
func (m *MockEventRepository) SetCancelled(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) error {
	return m.Called(ctx, id, kind).Error(0)
}
func (m *MockEventRepository) Delete(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) error {
	return m.Called(ctx, id, kind).Error(0)
}
func (m *MockEventRepository) AddAcceptance(ctx context.Context, id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID, at time.Time) error {
	return m.Called(ctx, id, kind, userID, at).Error(0)
}
func (m *MockEventRepository) SetDecline(ctx context.Context, id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID, at time.Time) error {
	return m.Called(ctx, id, kind, userID, at).Error(0)
}
func (m *MockEventRepository) RemoveParticipant(ctx context.Context, userID primitive.ObjectID) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockEventRepository) CountAccepted(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockProgressImageRepository struct{ mock.Mock }

func (m *MockProgressImageRepository) Create(ctx context.Context, image *domain.ProgressImage) (primitive.ObjectID, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}
func (m *MockProgressImageRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.ProgressImage, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressImage), args.Error(1)
}
func (m *MockProgressImageRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, tag string) ([]domain.ProgressImage, error) {
	args := m.Called(ctx, userID, tag)
	return args.Get(0).([]domain.ProgressImage), args.Error(1)
}
func (m *MockProgressImageRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return m.Called(ctx, id, userID).Error(0)
}
func (m *MockProgressImageRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) PutObject(ctx context.Context, objectKey, contentType string, body io.Reader, size int64) error {
	return m.Called(ctx, objectKey, contentType, body, size).Error(0)
}
func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}
func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

// MockNotifier records calls without expectations unless a test sets them.
type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Welcome(ctx context.Context, user *domain.User) { m.Called(ctx, user) }
func (m *MockNotifier) Suspended(ctx context.Context, user *domain.User, reason string) {
	m.Called(ctx, user, reason)
}
func (m *MockNotifier) Unsuspended(ctx context.Context, user *domain.User) { m.Called(ctx, user) }
func (m *MockNotifier) EventInvite(ctx context.Context, users []domain.User, event *domain.Event) int {
	return m.Called(ctx, users, event).Int(0)
}
func (m *MockNotifier) EventReminder(ctx context.Context, users []domain.User, event *domain.Event) int {
	return m.Called(ctx, users, event).Int(0)
}
func (m *MockNotifier) EventJoined(ctx context.Context, user *domain.User, event *domain.Event) {
	m.Called(ctx, user, event)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	return m.Called(ctx, subject, payload).Error(0)
}
func (m *MockPublisher) Close() {}
