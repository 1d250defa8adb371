package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/events"
	"ifitness/api/internal/notification"
	"ifitness/api/internal/repository"
	"ifitness/api/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrSelfAction = errors.New("admins cannot perform this action on their own account")

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	ActiveUsers    int64 `json:"activeUsers"`
	SuspendedUsers int64 `json:"suspendedUsers"`
	TotalWorkouts  int64 `json:"totalWorkouts"`
}

// DeleteUserResult reports what a user deletion removed.
type DeleteUserResult struct {
	WorkoutsDeleted int64 `json:"workoutsDeleted"`
	ImagesDeleted   int64 `json:"imagesDeleted"`
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	Stats(ctx context.Context) (*AdminStats, error)
	SuspendUser(ctx context.Context, adminID, userID primitive.ObjectID, reason string) (*domain.User, error)
	UnsuspendUser(ctx context.Context, adminID, userID primitive.ObjectID) (*domain.User, error)
	SetRoutine(ctx context.Context, userID primitive.ObjectID, routine []domain.RoutineDay) (*domain.User, error)
	// DeleteUser removes the user together with their workouts, progress
	// images and event answers.
	DeleteUser(ctx context.Context, adminID, userID primitive.ObjectID) (*DeleteUserResult, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	imageRepo   repository.ProgressImageRepository
	eventRepo   repository.EventRepository
	fileStorage storage.FileStorage
	notifier    notification.Notifier
	publisher   events.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewAdminService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	imageRepo repository.ProgressImageRepository,
	eventRepo repository.EventRepository,
	fileStorage storage.FileStorage,
	notifier notification.Notifier,
	publisher events.Publisher,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		imageRepo:   imageRepo,
		eventRepo:   eventRepo,
		fileStorage: fileStorage,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger.Named("admin_service"),
		now:         time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *adminService) GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	total, suspended, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workoutRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStats{
		TotalUsers:     total,
		ActiveUsers:    total - suspended,
		SuspendedUsers: suspended,
		TotalWorkouts:  workouts,
	}, nil
}

func (s *adminService) SuspendUser(ctx context.Context, adminID, userID primitive.ObjectID, reason string) (*domain.User, error) {
	if adminID == userID {
		return nil, ErrSelfAction
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError("a suspension reason is required")
	}
	if err := s.userRepo.SetSuspension(ctx, userID, true, reason, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User suspended", zap.String("user_id", userID.Hex()), zap.String("admin_id", adminID.Hex()))
	publish(ctx, s.publisher, s.logger, events.SubjectUserSuspended, events.UserEvent{
		UserID: userID.Hex(),
		Email:  user.Email,
		Reason: reason,
		By:     adminID.Hex(),
	})
	s.notifier.Suspended(ctx, user, reason)
	return user, nil
}

func (s *adminService) UnsuspendUser(ctx context.Context, adminID, userID primitive.ObjectID) (*domain.User, error) {
	if err := s.userRepo.SetSuspension(ctx, userID, false, "", time.Time{}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User unsuspended", zap.String("user_id", userID.Hex()), zap.String("admin_id", adminID.Hex()))
	publish(ctx, s.publisher, s.logger, events.SubjectUserUnsuspended, events.UserEvent{
		UserID: userID.Hex(),
		Email:  user.Email,
		By:     adminID.Hex(),
	})
	s.notifier.Unsuspended(ctx, user)
	return user, nil
}

func (s *adminService) SetRoutine(ctx context.Context, userID primitive.ObjectID, routine []domain.RoutineDay) (*domain.User, error) {
	normalized, ok := domain.NormalizeRoutine(routine)
	if !ok {
		return nil, validationError("weeklyRoutine contains an unknown day")
	}
	for _, d := range normalized {
		for _, e := range d.Exercises {
			if strings.TrimSpace(e.Name) == "" {
				return nil, validationError("%s: exercise name is required", d.Day)
			}
		}
	}
	if err := s.userRepo.SetRoutine(ctx, userID, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// DeleteUser runs the cascade without a transaction. Each step is
// idempotent, so a failed deletion can simply be retried.
func (s *adminService) DeleteUser(ctx context.Context, adminID, userID primitive.ObjectID) (*DeleteUserResult, error) {
	if adminID == userID {
		return nil, ErrSelfAction
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &DeleteUserResult{}
	if result.WorkoutsDeleted, err = s.workoutRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	images, err := s.imageRepo.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		if err := s.fileStorage.DeleteObject(ctx, img.ObjectKey); err != nil {
			s.logger.Warn("Failed to delete progress image object", zap.String("key", img.ObjectKey), zap.Error(err))
		}
	}
	if result.ImagesDeleted, err = s.imageRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.eventRepo.RemoveParticipant(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("User deleted",
		zap.String("user_id", userID.Hex()),
		zap.String("admin_id", adminID.Hex()),
		zap.Int64("workouts", result.WorkoutsDeleted),
		zap.Int64("images", result.ImagesDeleted))
	publish(ctx, s.publisher, s.logger, events.SubjectUserDeleted, events.UserEvent{
		UserID: userID.Hex(),
		Email:  user.Email,
		By:     adminID.Hex(),
	})
	return result, nil
}
