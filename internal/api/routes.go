package api

import (
	"net/http"
	"time"

	"ifitness/api/internal/config"
	"ifitness/api/internal/domain"
	"ifitness/api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth     service.AuthService
	User     service.UserService
	Workout  service.WorkoutService
	Exercise service.ExerciseService
	Event    service.EventService
	Admin    service.AdminService
}

func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	services Services,
	logger *zap.Logger,
) {
	RegisterValidators()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.FrontendURL}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	authHandler := NewAuthHandler(services.Auth, logger)
	userHandler := NewUserHandler(services.User, cfg.Uploads.MaxImageBytes, logger)
	workoutHandler := NewWorkoutHandler(services.Workout, logger)
	exerciseHandler := NewExerciseHandler(services.Exercise, logger)
	adminHandler := NewAdminHandler(services.Admin, logger)
	bootcampHandler := NewEventHandler(domain.KindBootcamp, services.Event, logger)
	outdoorHandler := NewEventHandler(domain.KindOutdoor, services.Event, logger)

	authMiddleware := AuthMiddleware(services.Auth)
	activeUser := ActiveUserMiddleware(services.Auth, logger)
	adminOnly := AdminMiddleware()

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		// Suspended users may still poll their status.
		authGroup.GET("/status", authMiddleware, authHandler.Status)
		authGroup.GET("/me", authMiddleware, activeUser, authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(authMiddleware, activeUser)

	workoutGroup := protected.Group("/workouts")
	{
		workoutGroup.GET("", workoutHandler.ListWorkouts)
		workoutGroup.GET("/stats", workoutHandler.GetStats)
		workoutGroup.GET("/:id", workoutHandler.GetWorkout)
		workoutGroup.POST("", workoutHandler.CreateWorkout)
		workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
		workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
	}

	exerciseGroup := protected.Group("/exercises")
	{
		exerciseGroup.GET("", exerciseHandler.ListExercises)
		exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		exerciseGroup.POST("", adminOnly, exerciseHandler.CreateExercise)
		exerciseGroup.PUT("/:id", adminOnly, exerciseHandler.UpdateExercise)
		exerciseGroup.DELETE("/:id", adminOnly, exerciseHandler.DeleteExercise)
	}

	userGroup := protected.Group("/users")
	{
		userGroup.GET("/profile", userHandler.GetProfile)
		userGroup.PUT("/profile", userHandler.UpdateProfile)
		userGroup.PUT("/password", userHandler.ChangePassword)

		userGroup.GET("/routine", userHandler.GetRoutine)
		userGroup.GET("/routine/today", userHandler.GetTodayRoutine)

		userGroup.GET("/goals", userHandler.ListGoals)
		userGroup.POST("/goals", userHandler.CreateGoal)
		userGroup.PUT("/goals/:goalId", userHandler.UpdateGoal)
		userGroup.DELETE("/goals/:goalId", userHandler.DeleteGoal)

		userGroup.GET("/achievements", userHandler.GetAchievements)

		userGroup.POST("/progress-images", userHandler.UploadProgressImage)
		userGroup.GET("/progress-images", userHandler.ListProgressImages)
		userGroup.DELETE("/progress-images/:imageId", userHandler.DeleteProgressImage)
	}

	adminGroup := protected.Group("/admin")
	adminGroup.Use(adminOnly)
	{
		adminGroup.GET("/stats", adminHandler.Stats)
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.GET("/users/:id", adminHandler.GetUser)
		adminGroup.PUT("/users/:id/suspend", adminHandler.SuspendUser)
		adminGroup.PUT("/users/:id/unsuspend", adminHandler.UnsuspendUser)
		adminGroup.PUT("/users/:id/routine", adminHandler.SetRoutine)
		adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
	}

	bootcampHandler.register(protected.Group("/bootcamps"), adminOnly)
	outdoorHandler.register(protected.Group("/outdoor-activities"), adminOnly)

	router.NoRoute(SPAHandler(cfg.Server.StaticDir))
}
