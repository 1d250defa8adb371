package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ifitness/api/internal/api"
	"ifitness/api/internal/cache"
	"ifitness/api/internal/config"
	"ifitness/api/internal/events"
	"ifitness/api/internal/notification"
	"ifitness/api/internal/platform/logger"
	"ifitness/api/internal/platform/metrics"
	"ifitness/api/internal/repository/mongo"
	"ifitness/api/internal/service"
	"ifitness/api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLogger := logger.New(cfg.Log)
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Starting iFitness server...", zap.String("address", cfg.Server.Address))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLogger.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	appLogger.Info("Database connection established", zap.String("database", cfg.Database.Name))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB, appLogger)
		appLogger.Info("Index creation process completed")
	}()

	// --- Storage ---
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	fileStorage, err := storage.NewS3Storage(initCtx, cfg.S3, appLogger)
	initCancel()
	if err != nil {
		appLogger.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	// --- Exercise catalog cache ---
	var catalogCache cache.ExerciseCache = cache.Noop{}
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, exercise catalog will not be cached", zap.Error(err))
		} else {
			defer redisClient.Close()
			catalogCache = cache.NewRedisExerciseCache(redisClient, cfg.Redis.TTL, appLogger)
		}
	}

	// --- Domain events ---
	var publisher events.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.ConnectTimeout, appLogger)
		if err != nil {
			appLogger.Warn("NATS unavailable, domain events disabled", zap.Error(err))
		} else {
			publisher = natsPublisher
		}
	}
	defer publisher.Close()

	// --- Metrics ---
	metricsManager := metrics.NewManager()
	metricsServer := metrics.NewServer(cfg.Metrics.Port, metricsManager.Registry, appLogger)
	metricsServer.Start()

	// --- Notifications ---
	mailer, err := notification.NewMailer(cfg.Email, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	notifier := notification.NewNotifier(mailer, cfg.Server.FrontendURL, metricsManager.EmailsSent, appLogger)

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	eventRepo := mongo.NewMongoEventRepository(appDB)
	imageRepo := mongo.NewMongoProgressImageRepository(appDB)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT, cfg.IsAdminEmail, notifier, publisher, metricsManager, appLogger)
	workoutService := service.NewWorkoutService(workoutRepo, userRepo, eventRepo, publisher, metricsManager, appLogger)
	services := api.Services{
		Auth:     authService,
		Workout:  workoutService,
		User:     service.NewUserService(userRepo, imageRepo, workoutService, fileStorage, cfg.Uploads.MaxImageBytes, cfg.S3.PresignExpiry, appLogger),
		Exercise: service.NewExerciseService(exerciseRepo, catalogCache, appLogger),
		Event:    service.NewEventService(eventRepo, userRepo, notifier, publisher, metricsManager, appLogger),
		Admin:    service.NewAdminService(userRepo, workoutRepo, imageRepo, eventRepo, fileStorage, notifier, publisher, appLogger),
	}

	// --- HTTP ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.Recovery(appLogger), api.RequestLogger(appLogger), metricsManager.GinMiddleware())
	api.SetupRoutes(router, cfg, services, appLogger)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("Metrics server shutdown failed", zap.Error(err))
	}

	appLogger.Info("Server exiting")
}
