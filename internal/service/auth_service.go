package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"ifitness/api/internal/config"
	"ifitness/api/internal/domain"
	"ifitness/api/internal/events"
	"ifitness/api/internal/notification"
	"ifitness/api/internal/platform/metrics"
	"ifitness/api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on registration and password change.
const MinPasswordLength = 6

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrUserSuspended        = errors.New("account is suspended")
	ErrUserNotFound         = errors.New("user not found")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrValidation           = errors.New("validation failed")
)

// SuspendedError carries the suspension details of a rejected user.
// errors.Is(err, ErrUserSuspended) holds for it.
type SuspendedError struct {
	Suspension domain.Suspension
}

func (e *SuspendedError) Error() string        { return ErrUserSuspended.Error() }
func (e *SuspendedError) Is(target error) bool { return target == ErrUserSuspended }

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Claims is the JWT payload issued at login and registration. Roles and
// suspension are read from the stored user on every request.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// RegisterInput holds the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Profile  domain.Profile
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// ParseToken validates a bearer token and returns its claims.
	ParseToken(token string) (*Claims, error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration
	adminEmails   func(email string) bool
	notifier      notification.Notifier
	publisher     events.Publisher
	metrics       *metrics.Manager
	logger        *zap.Logger
	now           func() time.Time
}

// NewAuthService creates the authentication service. isAdminEmail decides
// which registrations are granted admin rights.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtCfg config.JWTConfig,
	isAdminEmail func(email string) bool,
	notifier notification.Notifier,
	publisher events.Publisher,
	m *metrics.Manager,
	logger *zap.Logger,
) AuthService {
	if jwtCfg.Secret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtCfg.Expiration <= 0 {
		jwtCfg.Expiration = 24 * time.Hour
	}
	if isAdminEmail == nil {
		isAdminEmail = func(string) bool { return false }
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtCfg.Secret),
		jwtExpiration: jwtCfg.Expiration,
		adminEmails:   isAdminEmail,
		notifier:      notifier,
		publisher:     publisher,
		metrics:       m,
		logger:        logger.Named("auth_service"),
		now:           time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" {
		return "", nil, validationError("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return "", nil, validationError("email is invalid")
	}
	if len(in.Password) < MinPasswordLength {
		return "", nil, validationError("password must be at least %d characters", MinPasswordLength)
	}
	if err := validateProfile(in.Profile); err != nil {
		return "", nil, err
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return "", nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Profile:      in.Profile,
		IsAdmin:      s.adminEmails(in.Email),
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()), zap.Bool("admin", user.IsAdmin))
	s.metrics.UsersRegistered.Inc()
	publish(ctx, s.publisher, s.logger, events.SubjectUserRegistered, events.UserEvent{
		UserID: user.ID.Hex(),
		Email:  user.Email,
	})
	s.notifier.Welcome(ctx, user)

	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, validationError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}
	if user.Suspended {
		return "", nil, &SuspendedError{Suspension: user.Suspension()}
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
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

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "ifitness",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func validateProfile(p domain.Profile) error {
	switch {
	case p.Age < 0 || p.Age > 130:
		return validationError("age must be between 0 and 130")
	case p.Weight < 0 || p.Weight > 700:
		return validationError("weight must be between 0 and 700 kg")
	case p.Height < 0 || p.Height > 300:
		return validationError("height must be between 0 and 300 cm")
	}
	return nil
}

// publish sends a domain event. Failures are logged only.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, subject string, payload any) {
	if err := p.Publish(ctx, subject, payload); err != nil {
		logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
