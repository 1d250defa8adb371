package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Context keys set by the auth middlewares.
const (
	ContextUserIDKey = "userID"
	ContextUserKey   = "user"
)

// AuthMiddleware validates the bearer token and stores the user ID.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Token is not valid")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// ActiveUserMiddleware loads the user on every request so that suspension
// and deletion take effect immediately. Must run after AuthMiddleware.
func ActiveUserMiddleware(authService service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				abortWithError(c, http.StatusUnauthorized, "User no longer exists")
				return
			}
			respondError(c, logger, err)
			return
		}
		if user.Suspended {
			abortSuspended(c, &service.SuspendedError{Suspension: user.Suspension()})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminMiddleware allows admins only. The flag comes from the freshly loaded
// user, not the token, so revoked rights apply at once.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin {
			abortWithError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID, ok := userIDFromContext(c); ok {
			fields = append(fields, zap.String("user_id", userID.Hex()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns panics into a 500 JSON response and logs them.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	})
}

func userIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := raw.(primitive.ObjectID)
	return id, ok
}

// currentUser returns the user loaded by ActiveUserMiddleware, or nil.
func currentUser(c *gin.Context) *domain.User {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := raw.(*domain.User)
	return user
}

// objectIDParam parses a path parameter, answering 400 when it is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
