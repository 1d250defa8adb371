package api

import (
	"net/http"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WorkoutHandler serves /api/workouts. Every operation is scoped to the caller.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	logger         *zap.Logger
}

func NewWorkoutHandler(workoutService service.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, logger: logger}
}

type WorkoutExerciseRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"omitempty,objectid"`
	Name       string  `json:"name" binding:"required"`
	Sets       int     `json:"sets" binding:"min=0"`
	Reps       int     `json:"reps" binding:"min=0"`
	Weight     float64 `json:"weight" binding:"min=0"`
	Duration   int     `json:"duration" binding:"min=0"`
	Notes      string  `json:"notes"`
}

type WorkoutRequest struct {
	Name           string                   `json:"name" binding:"required"`
	Description    string                   `json:"description"`
	Duration       int                      `json:"duration" binding:"min=0"`
	CaloriesBurned int                      `json:"caloriesBurned" binding:"min=0"`
	Date           *time.Time               `json:"date"`
	Exercises      []WorkoutExerciseRequest `json:"exercises" binding:"dive"`
	Notes          string                   `json:"notes"`
}

// WorkoutCreatedResponse is the created workout plus achievements it unlocked.
type WorkoutCreatedResponse struct {
	*domain.Workout
	NewAchievements []domain.Achievement `json:"newAchievements"`
}

func (r WorkoutRequest) input() service.WorkoutInput {
	in := service.WorkoutInput{
		Name:           r.Name,
		Description:    r.Description,
		Duration:       r.Duration,
		CaloriesBurned: r.CaloriesBurned,
		Notes:          r.Notes,
		Exercises:      make([]domain.WorkoutExercise, 0, len(r.Exercises)),
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	for _, e := range r.Exercises {
		we := domain.WorkoutExercise{
			Name:     e.Name,
			Sets:     e.Sets,
			Reps:     e.Reps,
			Weight:   e.Weight,
			Duration: e.Duration,
			Notes:    e.Notes,
		}
		if id, err := primitive.ObjectIDFromHex(e.ExerciseID); err == nil {
			we.ExerciseID = &id
		}
		in.Exercises = append(in.Exercises, we)
	}
	return in
}

// parseDateParam accepts RFC 3339 timestamps or plain dates. A plain date
// used as an upper bound covers the whole day.
func parseDateParam(value string, endOfDay bool) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

// ListWorkouts handles GET /api/workouts?from=&to=.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	from, ok := parseDateParam(c.Query("from"), false)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid 'from' date")
		return
	}
	to, ok := parseDateParam(c.Query("to"), true)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid 'to' date")
		return
	}

	userID, _ := userIDFromContext(c)
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, domain.WorkoutFilter{From: from, To: to})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout handles GET /api/workouts/:id.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := userIDFromContext(c)
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// CreateWorkout handles POST /api/workouts.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, _ := userIDFromContext(c)
	workout, earned, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if earned == nil {
		earned = []domain.Achievement{}
	}
	c.JSON(http.StatusCreated, WorkoutCreatedResponse{Workout: workout, NewAchievements: earned})
}

// UpdateWorkout handles PUT /api/workouts/:id.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, _ := userIDFromContext(c)
	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, id, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout handles DELETE /api/workouts/:id.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := userIDFromContext(c)
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted"})
}

// GetStats handles GET /api/workouts/stats.
func (h *WorkoutHandler) GetStats(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	stats, err := h.workoutService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
