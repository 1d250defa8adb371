package api

import (
	"net/http"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves /api/admin.
type AdminHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(adminService service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

type SuspendRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RoutineExerciseRequest struct {
	Name     string `json:"name" binding:"required"`
	Sets     int    `json:"sets" binding:"min=0"`
	Reps     string `json:"reps"`
	Duration int    `json:"duration" binding:"min=0"`
	Notes    string `json:"notes"`
}

type RoutineDayRequest struct {
	Day       string                   `json:"day" binding:"required,weekday"`
	Workout   string                   `json:"workout" binding:"required"`
	Exercises []RoutineExerciseRequest `json:"exercises" binding:"dive"`
}

type SetRoutineRequest struct {
	WeeklyRoutine []RoutineDayRequest `json:"weeklyRoutine" binding:"dive"`
}

func (r SetRoutineRequest) routine() []domain.RoutineDay {
	days := make([]domain.RoutineDay, 0, len(r.WeeklyRoutine))
	for _, d := range r.WeeklyRoutine {
		day := domain.RoutineDay{Day: d.Day, Workout: d.Workout}
		for _, e := range d.Exercises {
			day.Exercises = append(day.Exercises, domain.RoutineExercise{
				Name:     e.Name,
				Sets:     e.Sets,
				Reps:     e.Reps,
				Duration: e.Duration,
				Notes:    e.Notes,
			})
		}
		days = append(days, day)
	}
	return days
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.adminService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SuspendUser handles PUT /api/admin/users/:id/suspend.
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req SuspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	adminID, _ := userIDFromContext(c)
	user, err := h.adminService.SuspendUser(c.Request.Context(), adminID, id, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UnsuspendUser handles PUT /api/admin/users/:id/unsuspend.
func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	adminID, _ := userIDFromContext(c)
	user, err := h.adminService.UnsuspendUser(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetRoutine handles PUT /api/admin/users/:id/routine.
func (h *AdminHandler) SetRoutine(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req SetRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.adminService.SetRoutine(c.Request.Context(), id, req.routine())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	adminID, _ := userIDFromContext(c)
	result, err := h.adminService.DeleteUser(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "User deleted",
		"workoutsDeleted": result.WorkoutsDeleted,
		"imagesDeleted":   result.ImagesDeleted,
	})
}
