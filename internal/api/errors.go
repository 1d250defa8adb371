package api

import (
	"errors"
	"net/http"

	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// abortWithError writes the JSON error body used by every endpoint.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// abortSuspended answers a request from a suspended user.
func abortSuspended(c *gin.Context, err *service.SuspendedError) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"message":     "Your account has been suspended",
		"suspended":   true,
		"reason":      err.Suspension.Reason,
		"suspendedAt": err.Suspension.SuspendedAt,
	})
}

var errorStatus = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrInvalidImage, http.StatusBadRequest},
	{service.ErrEventClosed, http.StatusBadRequest},
	{service.ErrEventCancelled, http.StatusBadRequest},
	{service.ErrSelfAction, http.StatusBadRequest},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrIncorrectPassword, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrWorkoutNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrEventNotFound, http.StatusNotFound},
	{service.ErrGoalNotFound, http.StatusNotFound},
	{service.ErrImageNotFound, http.StatusNotFound},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrExerciseExists, http.StatusConflict},
	{service.ErrAlreadyJoined, http.StatusConflict},
	{service.ErrEventFull, http.StatusConflict},
	{service.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrStorage, http.StatusServiceUnavailable},
}

// respondError maps a service error to its status code. Unknown errors are
// logged and reported as 500 without leaking details.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var suspended *service.SuspendedError
	if errors.As(err, &suspended) {
		abortSuspended(c, suspended)
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			abortWithError(c, e.code, err.Error())
			return
		}
	}
	logger.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err))
	abortWithError(c, http.StatusInternalServerError, "Internal server error")
}

// bindError reports a request body or query that failed binding.
func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "Validation error: "+describeBindError(err))
}
