package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// stubWorkouts satisfies WorkoutService for user service tests.
type stubWorkouts struct {
	WorkoutService
	synced int
}

func (s *stubWorkouts) SyncAchievements(context.Context, primitive.ObjectID) ([]domain.Achievement, error) {
	s.synced++
	return nil, nil
}

type userFixture struct {
	svc      *userService
	users    *MockUserRepository
	images   *MockProgressImageRepository
	storage  *MockFileStorage
	workouts *stubWorkouts
	now      time.Time
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:    new(MockUserRepository),
		images:   new(MockProgressImageRepository),
		storage:  new(MockFileStorage),
		workouts: &stubWorkouts{},
		now:      time.Date(2026, 8, 12, 8, 0, 0, 0, time.UTC), // Wednesday
	}
	f.svc = NewUserService(f.users, f.images, f.workouts, f.storage, 1024, time.Minute, zap.NewNop()).(*userService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()
	f.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, PasswordHash: hashPassword(t, "old-secret")}, nil)

	err := f.svc.ChangePassword(ctx, userID, "wrong", "new-secret")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	err = f.svc.ChangePassword(ctx, userID, "old-secret", "123")
	assert.ErrorIs(t, err, ErrValidation)

	f.users.On("UpdatePassword", ctx, userID, mock.MatchedBy(func(h string) bool {
		return strings.HasPrefix(h, "$2") && h != "new-secret"
	})).Return(nil)
	require.NoError(t, f.svc.ChangePassword(ctx, userID, "old-secret", "new-secret"))
	f.users.AssertExpectations(t)
}

func TestUserService_TodayRoutine(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()
	f.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, WeeklyRoutine: []domain.RoutineDay{
		{Day: "Monday", Workout: "Push"},
		{Day: "Wednesday", Workout: "Pull"},
	}}, nil)

	today, err := f.svc.GetTodayRoutine(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", today.Day)
	require.NotNil(t, today.Routine)
	assert.Equal(t, "Pull", today.Routine.Workout)

	f.now = f.now.AddDate(0, 0, 1)
	today, err = f.svc.GetTodayRoutine(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Thursday", today.Day)
	assert.Nil(t, today.Routine)
}

func TestUserService_GoalLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()
	goalID := primitive.NewObjectID()
	existing := domain.Goal{ID: goalID, Title: "Run 100 km", Target: 100, Current: 40, Unit: "km"}
	f.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Goals: []domain.Goal{existing}}, nil)

	_, err := f.svc.CreateGoal(ctx, userID, GoalInput{Title: "No target"})
	assert.ErrorIs(t, err, ErrValidation)

	f.users.On("AddGoal", ctx, userID, mock.MatchedBy(func(g domain.Goal) bool {
		return g.Title == "Bench 100 kg" && !g.ID.IsZero()
	})).Return(nil).Once()
	created, err := f.svc.CreateGoal(ctx, userID, GoalInput{Title: "Bench 100 kg", Target: 100, Current: 80, Unit: "kg"})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	current := 100.0
	f.users.On("ReplaceGoal", ctx, userID, mock.MatchedBy(func(g domain.Goal) bool {
		return g.ID == goalID && g.Completed && g.CompletedAt != nil && g.Title == "Run 100 km"
	})).Return(nil).Once()
	updated, err := f.svc.UpdateGoal(ctx, userID, goalID, GoalUpdate{Current: &current})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, 100.0, updated.Progress())

	_, err = f.svc.UpdateGoal(ctx, userID, primitive.NewObjectID(), GoalUpdate{Current: &current})
	assert.ErrorIs(t, err, ErrGoalNotFound)

	f.users.On("RemoveGoal", ctx, userID, goalID).Return(nil).Once()
	require.NoError(t, f.svc.DeleteGoal(ctx, userID, goalID))
	missing := primitive.NewObjectID()
	f.users.On("RemoveGoal", ctx, userID, missing).Return(repository.ErrNotFound).Once()
	assert.ErrorIs(t, f.svc.DeleteGoal(ctx, userID, missing), ErrGoalNotFound)
}

func TestUserService_UpdateGoalRemovedMeanwhile(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()
	goalID := primitive.NewObjectID()
	f.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Goals: []domain.Goal{{ID: goalID, Title: "Swim", Target: 10}}}, nil)
	f.users.On("ReplaceGoal", ctx, userID, mock.Anything).Return(repository.ErrNotFound)

	current := 5.0
	_, err := f.svc.UpdateGoal(ctx, userID, goalID, GoalUpdate{Current: &current})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestUserService_UploadProgressImage(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()

	_, err := f.svc.UploadProgressImage(ctx, userID, ImageUpload{ContentType: "application/pdf", Size: 10})
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = f.svc.UploadProgressImage(ctx, userID, ImageUpload{ContentType: "image/png", Size: 2048})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	body := strings.NewReader("png-bytes")
	keyPrefix := "progress/" + userID.Hex() + "/"
	f.storage.On("PutObject", ctx, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, keyPrefix) && strings.HasSuffix(k, ".png")
	}), "image/png", body, int64(9)).Return(nil)
	f.images.On("Create", ctx, mock.MatchedBy(func(img *domain.ProgressImage) bool {
		return img.UserID == userID && img.Tag == "front" && img.Label == "Week 1"
	})).Return(primitive.NewObjectID(), nil)
	f.storage.On("GeneratePresignedDownloadURL", ctx, mock.Anything, time.Minute).Return("https://s3.example/signed", nil)

	view, err := f.svc.UploadProgressImage(ctx, userID, ImageUpload{
		Filename:    "me.PNG",
		ContentType: "image/png",
		Size:        9,
		Body:        body,
		Tag:         " Front ",
		Label:       "Week 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/signed", view.URL)
	f.storage.AssertExpectations(t)
}

func TestUserService_UploadCleansUpOnMetadataFailure(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()

	f.storage.On("PutObject", ctx, mock.Anything, "image/jpeg", mock.Anything, int64(5)).Return(nil)
	f.images.On("Create", ctx, mock.Anything).Return(primitive.NilObjectID, errors.New("insert failed"))
	f.storage.On("DeleteObject", ctx, mock.Anything).Return(nil)

	_, err := f.svc.UploadProgressImage(ctx, userID, ImageUpload{ContentType: "image/jpeg", Size: 5, Body: strings.NewReader("jpeg!")})
	require.Error(t, err)
	f.storage.AssertCalled(t, "DeleteObject", ctx, mock.Anything)
}

func TestUserService_DeleteProgressImageOfAnotherUser(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	imageID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	f.images.On("GetByID", ctx, imageID, userID).Return(nil, repository.ErrNotFound)

	err := f.svc.DeleteProgressImage(ctx, userID, imageID)
	assert.ErrorIs(t, err, ErrImageNotFound)
	f.storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestUserService_AchievementsResyncFirst(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture()
	userID := primitive.NewObjectID()
	early := domain.Achievement{Key: "first_workout", EarnedAt: f.now.Add(-48 * time.Hour)}
	late := domain.Achievement{Key: "streak_3", EarnedAt: f.now}
	f.users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, Achievements: []domain.Achievement{late, early}}, nil)

	got, err := f.svc.GetAchievements(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.workouts.synced)
	assert.Equal(t, []domain.Achievement{early, late}, got)
}
