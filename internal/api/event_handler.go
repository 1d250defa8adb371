package api

import (
	"net/http"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler serves one kind of event. Bootcamps and outdoor activities
// share the handler and differ only in kind.
type EventHandler struct {
	kind         domain.EventKind
	eventService service.EventService
	logger       *zap.Logger
}

func NewEventHandler(kind domain.EventKind, eventService service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{kind: kind, eventService: eventService, logger: logger.With(zap.String("kind", string(kind)))}
}

type EventRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Difficulty      string    `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	EndTime         time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	MaxParticipants int       `json:"maxParticipants" binding:"min=0"`
}

func (r EventRequest) input() service.EventInput {
	return service.EventInput{
		Title:           r.Title,
		Description:     r.Description,
		Location:        r.Location,
		Difficulty:      r.Difficulty,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		MaxParticipants: r.MaxParticipants,
	}
}

// List handles GET / with an optional status filter.
func (h *EventHandler) List(c *gin.Context) {
	status := domain.EventStatus(c.Query("status"))
	if status != "" && !domain.IsValidEventStatus(status) {
		abortWithError(c, http.StatusBadRequest, "Invalid status filter")
		return
	}
	events, err := h.eventService.List(c.Request.Context(), h.kind, status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if events == nil {
		events = []service.EventView{}
	}
	c.JSON(http.StatusOK, events)
}

// Current handles GET /current. No content means nothing is scheduled.
func (h *EventHandler) Current(c *gin.Context) {
	event, err := h.eventService.Current(c.Request.Context(), h.kind)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if event == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Mine handles GET /mine.
func (h *EventHandler) Mine(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	events, err := h.eventService.Mine(c.Request.Context(), h.kind, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if events == nil {
		events = []service.EventView{}
	}
	c.JSON(http.StatusOK, events)
}

// Get handles GET /:id.
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), h.kind, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Create handles POST / (admin).
func (h *EventHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	adminID, _ := userIDFromContext(c)
	event, err := h.eventService.Create(c.Request.Context(), h.kind, adminID, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Update handles PUT /:id (admin).
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), h.kind, id, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /:id (admin).
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), h.kind, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// Cancel handles POST /:id/cancel (admin).
func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Cancel(c.Request.Context(), h.kind, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Accept handles POST /:id/accept.
func (h *EventHandler) Accept(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := userIDFromContext(c)
	event, err := h.eventService.Accept(c.Request.Context(), h.kind, id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Decline handles POST /:id/decline.
func (h *EventHandler) Decline(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := userIDFromContext(c)
	event, err := h.eventService.Decline(c.Request.Context(), h.kind, id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Invite handles POST /:id/invite (admin).
func (h *EventHandler) Invite(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	n, err := h.eventService.Invite(c.Request.Context(), h.kind, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitations sent", "recipients": n})
}

// Remind handles POST /:id/remind (admin).
func (h *EventHandler) Remind(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	n, err := h.eventService.Remind(c.Request.Context(), h.kind, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminders sent", "recipients": n})
}

func (h *EventHandler) register(group *gin.RouterGroup, admin gin.HandlerFunc) {
	group.GET("", h.List)
	group.GET("/current", h.Current)
	group.GET("/mine", h.Mine)
	group.GET("/:id", h.Get)
	group.POST("/:id/accept", h.Accept)
	group.POST("/:id/decline", h.Decline)

	group.POST("", admin, h.Create)
	group.PUT("/:id", admin, h.Update)
	group.DELETE("/:id", admin, h.Delete)
	group.POST("/:id/cancel", admin, h.Cancel)
	group.POST("/:id/invite", admin, h.Invite)
	group.POST("/:id/remind", admin, h.Remind)
}
