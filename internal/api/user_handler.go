package api

import (
	"errors"
	"net/http"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for the form fields around the image part.
const multipartOverhead = 1 << 20

// UserHandler serves /api/users for the authenticated user.
type UserHandler struct {
	userService   service.UserService
	maxImageBytes int64
	logger        *zap.Logger
}

func NewUserHandler(userService service.UserService, maxImageBytes int64, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, maxImageBytes: maxImageBytes, logger: logger}
}

type UpdateProfileRequest struct {
	Name        string  `json:"name" binding:"required"`
	Age         int     `json:"age" binding:"omitempty,min=0,max=130"`
	Weight      float64 `json:"weight" binding:"omitempty,min=0"`
	Height      float64 `json:"height" binding:"omitempty,min=0"`
	FitnessGoal string  `json:"fitnessGoal"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Target      float64    `json:"target" binding:"required,gt=0"`
	Current     float64    `json:"current" binding:"min=0"`
	Unit        string     `json:"unit"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateGoalRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	Target      *float64   `json:"target" binding:"omitempty,gt=0"`
	Current     *float64   `json:"current" binding:"omitempty,min=0"`
	Unit        *string    `json:"unit"`
	Deadline    *time.Time `json:"deadline"`
}

// GoalResponse adds the computed completion percentage.
type GoalResponse struct {
	domain.Goal
	Progress float64 `json:"progress"`
}

func goalResponse(g domain.Goal) GoalResponse {
	return GoalResponse{Goal: g, Progress: g.Progress()}
}

// GetProfile handles GET /api/users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, _ := userIDFromContext(c)
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.Name, domain.Profile{
		Age:         req.Age,
		Weight:      req.Weight,
		Height:      req.Height,
		FitnessGoal: req.FitnessGoal,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /api/users/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, _ := userIDFromContext(c)
	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// GetRoutine handles GET /api/users/routine.
func (h *UserHandler) GetRoutine(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	routine, err := h.userService.GetRoutine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if routine == nil {
		routine = []domain.RoutineDay{}
	}
	c.JSON(http.StatusOK, routine)
}

// GetTodayRoutine handles GET /api/users/routine/today.
func (h *UserHandler) GetTodayRoutine(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	today, err := h.userService.GetTodayRoutine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, today)
}

// ListGoals handles GET /api/users/goals.
func (h *UserHandler) ListGoals(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	goals, err := h.userService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, goalResponse(g))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateGoal handles POST /api/users/goals.
func (h *UserHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, _ := userIDFromContext(c)
	goal, err := h.userService.CreateGoal(c.Request.Context(), userID, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Current:     req.Current,
		Unit:        req.Unit,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, goalResponse(*goal))
}

// UpdateGoal handles PUT /api/users/goals/:goalId.
func (h *UserHandler) UpdateGoal(c *gin.Context) {
	goalID, ok := objectIDParam(c, "goalId")
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, _ := userIDFromContext(c)
	goal, err := h.userService.UpdateGoal(c.Request.Context(), userID, goalID, service.GoalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Current:     req.Current,
		Unit:        req.Unit,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, goalResponse(*goal))
}

// DeleteGoal handles DELETE /api/users/goals/:goalId.
func (h *UserHandler) DeleteGoal(c *gin.Context) {
	goalID, ok := objectIDParam(c, "goalId")
	if !ok {
		return
	}
	userID, _ := userIDFromContext(c)
	if err := h.userService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// GetAchievements handles GET /api/users/achievements.
func (h *UserHandler) GetAchievements(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	achievements, err := h.userService.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if achievements == nil {
		achievements = []domain.Achievement{}
	}
	c.JSON(http.StatusOK, achievements)
}

// UploadProgressImage handles POST /api/users/progress-images.
func (h *UserHandler) UploadProgressImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes+multipartOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.logger, service.ErrImageTooLarge)
			return
		}
		abortWithError(c, http.StatusBadRequest, "Validation error: image is required")
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		abortWithError(c, http.StatusBadRequest, "Could not read uploaded image")
		return
	}
	defer file.Close()

	userID, _ := userIDFromContext(c)
	image, err := h.userService.UploadProgressImage(c.Request.Context(), userID, service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        file,
		Tag:         c.PostForm("tag"),
		Label:       c.PostForm("label"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

// ListProgressImages handles GET /api/users/progress-images?tag=.
func (h *UserHandler) ListProgressImages(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	images, err := h.userService.ListProgressImages(c.Request.Context(), userID, c.Query("tag"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if images == nil {
		images = []service.ProgressImageView{}
	}
	c.JSON(http.StatusOK, images)
}

// DeleteProgressImage handles DELETE /api/users/progress-images/:imageId.
func (h *UserHandler) DeleteProgressImage(c *gin.Context) {
	imageID, ok := objectIDParam(c, "imageId")
	if !ok {
		return
	}
	userID, _ := userIDFromContext(c)
	if err := h.userService.DeleteProgressImage(c.Request.Context(), userID, imageID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}
