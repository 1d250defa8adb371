package service

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/repository"
	"ifitness/api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrImageNotFound     = errors.New("progress image not found")
	ErrInvalidImage      = errors.New("only image uploads are allowed")
	ErrImageTooLarge     = errors.New("image exceeds the upload size limit")
	ErrStorage           = errors.New("file storage is unavailable")
)

// GoalInput creates a goal.
type GoalInput struct {
	Title       string
	Description string
	Target      float64
	Current     float64
	Unit        string
	Deadline    *time.Time
}

// GoalUpdate changes the non-nil fields of a goal.
type GoalUpdate struct {
	Title       *string
	Description *string
	Target      *float64
	Current     *float64
	Unit        *string
	Deadline    *time.Time
}

// TodayRoutine is the routine entry for the current weekday. Routine is nil on rest days.
type TodayRoutine struct {
	Day     string             `json:"day"`
	Routine *domain.RoutineDay `json:"routine"`
}

// ImageUpload describes a progress image received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Tag         string
	Label       string
}

// ProgressImageView is a progress image with a temporary download URL.
type ProgressImageView struct {
	domain.ProgressImage
	URL string `json:"url"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string, profile domain.Profile) (*domain.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error

	GetRoutine(ctx context.Context, userID primitive.ObjectID) ([]domain.RoutineDay, error)
	GetTodayRoutine(ctx context.Context, userID primitive.ObjectID) (*TodayRoutine, error)

	ListGoals(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, userID primitive.ObjectID, in GoalInput) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID primitive.ObjectID, in GoalUpdate) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID primitive.ObjectID) error

	GetAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error)

	UploadProgressImage(ctx context.Context, userID primitive.ObjectID, upload ImageUpload) (*ProgressImageView, error)
	ListProgressImages(ctx context.Context, userID primitive.ObjectID, tag string) ([]ProgressImageView, error)
	DeleteProgressImage(ctx context.Context, userID, imageID primitive.ObjectID) error
}

type userService struct {
	userRepo       repository.UserRepository
	imageRepo      repository.ProgressImageRepository
	workouts       WorkoutService
	fileStorage    storage.FileStorage
	maxImageBytes  int64
	presignExpires time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	imageRepo repository.ProgressImageRepository,
	workouts WorkoutService,
	fileStorage storage.FileStorage,
	maxImageBytes int64,
	presignExpires time.Duration,
	logger *zap.Logger,
) UserService {
	if presignExpires <= 0 {
		presignExpires = storage.DefaultPresignedURLExpiry
	}
	return &userService{
		userRepo:       userRepo,
		imageRepo:      imageRepo,
		workouts:       workouts,
		fileStorage:    fileStorage,
		maxImageBytes:  maxImageBytes,
		presignExpires: presignExpires,
		logger:         logger.Named("user_service"),
		now:            time.Now,
	}
}

func (s *userService) loadUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string, profile domain.Profile) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, name, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return validationError("password must be at least %d characters", MinPasswordLength)
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.logger.Info("Password changed", zap.String("user_id", userID.Hex()))
	return nil
}

func (s *userService) GetRoutine(ctx context.Context, userID primitive.ObjectID) ([]domain.RoutineDay, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.WeeklyRoutine == nil {
		return []domain.RoutineDay{}, nil
	}
	return user.WeeklyRoutine, nil
}

func (s *userService) GetTodayRoutine(ctx context.Context, userID primitive.ObjectID) (*TodayRoutine, error) {
	routine, err := s.GetRoutine(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &TodayRoutine{Day: now.Weekday().String(), Routine: domain.RoutineFor(routine, now)}, nil
}

func (s *userService) ListGoals(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Goals == nil {
		return []domain.Goal{}, nil
	}
	return user.Goals, nil
}

func validateGoal(g *domain.Goal) error {
	g.Title = strings.TrimSpace(g.Title)
	switch {
	case g.Title == "":
		return validationError("title is required")
	case g.Target <= 0:
		return validationError("target must be positive")
	case g.Current < 0:
		return validationError("current cannot be negative")
	}
	return nil
}

func (s *userService) CreateGoal(ctx context.Context, userID primitive.ObjectID, in GoalInput) (*domain.Goal, error) {
	now := s.now()
	goal := domain.Goal{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Target:      in.Target,
		Current:     in.Current,
		Unit:        in.Unit,
		Deadline:    in.Deadline,
		CreatedAt:   now.UTC(),
	}
	if err := validateGoal(&goal); err != nil {
		return nil, err
	}
	goal.RefreshCompletion(now)

	if err := s.userRepo.AddGoal(ctx, userID, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (s *userService) UpdateGoal(ctx context.Context, userID, goalID primitive.ObjectID, in GoalUpdate) (*domain.Goal, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal := user.FindGoal(goalID)
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	if in.Title != nil {
		goal.Title = *in.Title
	}
	if in.Description != nil {
		goal.Description = *in.Description
	}
	if in.Target != nil {
		goal.Target = *in.Target
	}
	if in.Current != nil {
		goal.Current = *in.Current
	}
	if in.Unit != nil {
		goal.Unit = *in.Unit
	}
	if in.Deadline != nil {
		goal.Deadline = in.Deadline
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}
	goal.RefreshCompletion(s.now())

	if err := s.userRepo.ReplaceGoal(ctx, userID, *goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *userService) DeleteGoal(ctx context.Context, userID, goalID primitive.ObjectID) error {
	if err := s.userRepo.RemoveGoal(ctx, userID, goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGoalNotFound
		}
		return err
	}
	return nil
}

// GetAchievements resyncs first so milestones reached through edits or
// event participation show up without logging a new workout.
func (s *userService) GetAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	if _, err := s.workouts.SyncAchievements(ctx, userID); err != nil {
		s.logger.Warn("Achievement sync failed", zap.String("user_id", userID.Hex()), zap.Error(err))
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements := append([]domain.Achievement{}, user.Achievements...)
	sort.SliceStable(achievements, func(i, j int) bool {
		return achievements[i].EarnedAt.Before(achievements[j].EarnedAt)
	})
	return achievements, nil
}

func imageExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		return "." + strings.SplitN(parts[1], ";", 2)[0]
	}
	return ""
}

func (s *userService) UploadProgressImage(ctx context.Context, userID primitive.ObjectID, upload ImageUpload) (*ProgressImageView, error) {
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrInvalidImage
	}
	if upload.Size <= 0 {
		return nil, validationError("image is empty")
	}
	if upload.Size > s.maxImageBytes {
		return nil, ErrImageTooLarge
	}

	objectKey := path.Join("progress", userID.Hex(), uuid.NewString()+imageExtension(upload.Filename, contentType))
	if err := s.fileStorage.PutObject(ctx, objectKey, contentType, upload.Body, upload.Size); err != nil {
		s.logger.Error("Progress image upload failed", zap.String("key", objectKey), zap.Error(err))
		return nil, ErrStorage
	}

	image := &domain.ProgressImage{
		UserID:      userID,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        upload.Size,
		Tag:         strings.ToLower(strings.TrimSpace(upload.Tag)),
		Label:       strings.TrimSpace(upload.Label),
		UploadedBy:  userID,
	}
	if _, err := s.imageRepo.Create(ctx, image); err != nil {
		// Don't leave an orphaned object behind.
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned object", zap.String("key", objectKey), zap.Error(delErr))
		}
		return nil, err
	}
	return s.view(ctx, *image), nil
}

func (s *userService) view(ctx context.Context, image domain.ProgressImage) *ProgressImageView {
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, image.ObjectKey, s.presignExpires)
	if err != nil {
		s.logger.Warn("Failed to presign progress image", zap.String("key", image.ObjectKey), zap.Error(err))
	}
	return &ProgressImageView{ProgressImage: image, URL: url}
}

func (s *userService) ListProgressImages(ctx context.Context, userID primitive.ObjectID, tag string) ([]ProgressImageView, error) {
	images, err := s.imageRepo.ListByUser(ctx, userID, strings.ToLower(strings.TrimSpace(tag)))
	if err != nil {
		return nil, err
	}
	views := make([]ProgressImageView, 0, len(images))
	for _, img := range images {
		views = append(views, *s.view(ctx, img))
	}
	return views, nil
}

func (s *userService) DeleteProgressImage(ctx context.Context, userID, imageID primitive.ObjectID) error {
	image, err := s.imageRepo.GetByID(ctx, imageID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if err := s.imageRepo.Delete(ctx, imageID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	// The metadata is gone, so a leftover object is only wasted space.
	if err := s.fileStorage.DeleteObject(ctx, image.ObjectKey); err != nil {
		s.logger.Warn("Failed to delete progress image object", zap.String("key", image.ObjectKey), zap.Error(err))
	}
	return nil
}
