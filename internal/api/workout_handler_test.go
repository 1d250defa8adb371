package api

import (
	"net/http"
	"testing"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWorkouts_ScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	owner := regularUser()
	other := regularUser()
	otherToken := env.signIn(other)
	workoutID := primitive.NewObjectID()

	// The service only knows the workout under its owner's ID.
	env.workouts.On("GetWorkout", mock.Anything, other.ID, workoutID).Return(nil, service.ErrWorkoutNotFound)
	env.workouts.On("DeleteWorkout", mock.Anything, other.ID, workoutID).Return(service.ErrWorkoutNotFound)

	w := env.do(t, http.MethodGet, "/api/workouts/"+workoutID.Hex(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/workouts/"+workoutID.Hex(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.workouts.AssertNotCalled(t, "GetWorkout", mock.Anything, owner.ID, workoutID)
}

func TestCreateWorkout_ReturnsNewAchievements(t *testing.T) {
	env := newTestEnv(t)
	user := regularUser()
	token := env.signIn(user)
	exerciseID := primitive.NewObjectID()
	date := time.Date(2024, 5, 6, 7, 0, 0, 0, time.UTC)

	created := &domain.Workout{ID: primitive.NewObjectID(), UserID: user.ID, Name: "Leg day", Duration: 45, Date: date}
	earned := []domain.Achievement{{Key: "first_workout", Title: "First Step", EarnedAt: date}}
	env.workouts.On("CreateWorkout", mock.Anything, user.ID, mock.MatchedBy(func(in service.WorkoutInput) bool {
		return in.Name == "Leg day" && in.Duration == 45 && in.Date.Equal(date) &&
			len(in.Exercises) == 2 &&
			in.Exercises[0].ExerciseID != nil && *in.Exercises[0].ExerciseID == exerciseID &&
			in.Exercises[1].ExerciseID == nil
	})).Return(created, earned, nil)

	w := env.do(t, http.MethodPost, "/api/workouts", token, map[string]any{
		"name":     "Leg day",
		"duration": 45,
		"date":     date.Format(time.RFC3339),
		"exercises": []map[string]any{
			{"exerciseId": exerciseID.Hex(), "name": "Squat", "sets": 5, "reps": 5, "weight": 100},
			{"name": "Walking lunge", "sets": 3, "reps": 12},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, created.ID.Hex(), body["id"])
	assert.Equal(t, "Leg day", body["name"])
	achievements := body["newAchievements"].([]any)
	assert.Len(t, achievements, 1)
	assert.Equal(t, "first_workout", achievements[0].(map[string]any)["key"])
}

func TestCreateWorkout_NoAchievementsIsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	user := regularUser()
	token := env.signIn(user)
	env.workouts.On("CreateWorkout", mock.Anything, user.ID, mock.Anything).
		Return(&domain.Workout{ID: primitive.NewObjectID(), Name: "Run"}, nil, nil)

	w := env.do(t, http.MethodPost, "/api/workouts", token, map[string]any{"name": "Run"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["newAchievements"])
}

func TestCreateWorkout_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(regularUser())

	w := env.do(t, http.MethodPost, "/api/workouts", token, map[string]any{"duration": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/workouts", token, map[string]any{
		"name":      "Bad ref",
		"exercises": []map[string]any{{"exerciseId": "xyz", "name": "Squat"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "exerciseID must be a valid id")
}

func TestListWorkouts_DateFilters(t *testing.T) {
	env := newTestEnv(t)
	user := regularUser()
	token := env.signIn(user)

	want := domain.WorkoutFilter{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC),
	}
	env.workouts.On("ListWorkouts", mock.Anything, user.ID, want).Return([]domain.Workout{{Name: "Run"}}, nil)

	w := env.do(t, http.MethodGet, "/api/workouts?from=2024-01-01&to=2024-01-31", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/workouts?from=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkouts_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(regularUser())

	w := env.do(t, http.MethodGet, "/api/workouts/not-an-id", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id", decode(t, w)["message"])
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	user := regularUser()
	token := env.signIn(user)
	env.workouts.On("GetStats", mock.Anything, user.ID).Return(&domain.WorkoutStats{TotalWorkouts: 3, CurrentStreak: 2}, nil)

	w := env.do(t, http.MethodGet, "/api/workouts/stats", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(3), body["totalWorkouts"])
	assert.Equal(t, float64(2), body["currentStreak"])
}

func TestParseDateParam(t *testing.T) {
	got, ok := parseDateParam("", true)
	assert.True(t, ok)
	assert.True(t, got.IsZero())

	got, ok = parseDateParam("2024-02-29T10:30:00+02:00", true)
	assert.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC)))

	got, ok = parseDateParam("2024-02-29", false)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseDateParam("29/02/2024", false)
	assert.False(t, ok)
}
