package api

import (
	"net/http"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExerciseHandler serves the shared exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

func NewExerciseHandler(exerciseService service.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

type ExerciseQuery struct {
	Category    string `form:"category"`
	MuscleGroup string `form:"muscleGroup"`
	Difficulty  string `form:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Query       string `form:"q"`
}

type ExerciseRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	MuscleGroup  string `json:"muscleGroup" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Instructions string `json:"instructions"`
	Equipment    string `json:"equipment"`
}

func (r ExerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:         r.Name,
		Category:     r.Category,
		MuscleGroup:  r.MuscleGroup,
		Difficulty:   r.Difficulty,
		Instructions: r.Instructions,
		Equipment:    r.Equipment,
	}
}

// ListExercises handles GET /api/exercises.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var q ExerciseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), domain.ExerciseFilter{
		Category:    q.Category,
		MuscleGroup: q.MuscleGroup,
		Difficulty:  q.Difficulty,
		Query:       q.Query,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise handles GET /api/exercises/:id.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// CreateExercise handles POST /api/exercises (admin).
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// UpdateExercise handles PUT /api/exercises/:id (admin).
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise handles DELETE /api/exercises/:id (admin).
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted"})
}
