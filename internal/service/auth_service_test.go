package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ifitness/api/internal/config"
	"ifitness/api/internal/domain"
	"ifitness/api/internal/events"
	"ifitness/api/internal/platform/metrics"
	"ifitness/api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc       *authService
	users     *MockUserRepository
	notifier  *MockNotifier
	publisher *MockPublisher
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		notifier:  new(MockNotifier),
		publisher: new(MockPublisher),
	}
	isAdmin := func(email string) bool { return email == "coach@example.com" }
	f.svc = NewAuthService(f.users, config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		isAdmin, f.notifier, f.publisher, metrics.NewManager(), zap.NewNop()).(*authService)
	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	userID := primitive.NewObjectID()

	var storedHash string
	f.users.On("GetByEmail", ctx, "ann@example.com").Return(nil, repository.ErrNotFound).Once()
	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { storedHash = args.Get(1).(*domain.User).PasswordHash }).
		Return(userID, nil)
	f.publisher.On("Publish", ctx, events.SubjectUserRegistered, mock.Anything).Return(nil)
	f.notifier.On("Welcome", ctx, mock.AnythingOfType("*domain.User")).Return()

	token, user, err := f.svc.Register(ctx, RegisterInput{
		Name:     "Ann",
		Email:    "  Ann@Example.com ",
		Password: "secret1",
		Profile:  domain.Profile{Age: 31, Weight: 62.5},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secret1", storedHash)

	f.users.On("GetByEmail", ctx, "ann@example.com").Return(&domain.User{
		ID:           userID,
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: storedHash,
	}, nil)

	loginToken, loggedIn, err := f.svc.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, userID, loggedIn.ID)

	claims, err := f.svc.ParseToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)

	f.users.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestAuthService_RegisterGrantsConfiguredAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	f.users.On("GetByEmail", ctx, "coach@example.com").Return(nil, repository.ErrNotFound)
	f.users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.IsAdmin })).
		Return(primitive.NewObjectID(), nil)
	f.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("nats down"))
	f.notifier.On("Welcome", ctx, mock.Anything).Return()

	token, user, err := f.svc.Register(ctx, RegisterInput{Name: "Coach", Email: "coach@example.com", Password: "secret1"})
	require.NoError(t, err, "a publish failure must not fail registration")
	assert.True(t, user.IsAdmin)

	payload := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, payload)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), payload["uid"])
	assert.NotContains(t, payload, "admin", "admin rights come from the stored user")
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ann@example.com").Return(&domain.User{}, nil)

		_, _, err := f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent registration", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ann@example.com").Return(nil, repository.ErrNotFound)
		f.users.On("Create", ctx, mock.Anything).Return(primitive.NilObjectID, repository.ErrDuplicate)

		_, _, err := f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newAuthFixture()
	cases := map[string]RegisterInput{
		"short password": {Name: "Ann", Email: "ann@example.com", Password: "12345"},
		"missing name":   {Email: "ann@example.com", Password: "secret1"},
		"bad email":      {Name: "Ann", Email: "not-an-email", Password: "secret1"},
		"negative age":   {Name: "Ann", Email: "ann@example.com", Password: "secret1", Profile: domain.Profile{Age: -1}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := f.svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	hash := hashPassword(t, "secret1")
	suspendedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	f.users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)
	f.users.On("GetByEmail", ctx, "ann@example.com").Return(&domain.User{ID: primitive.NewObjectID(), PasswordHash: hash}, nil)
	f.users.On("GetByEmail", ctx, "bob@example.com").Return(&domain.User{
		ID:              primitive.NewObjectID(),
		PasswordHash:    hash,
		Suspended:       true,
		SuspendedReason: "spam",
		SuspendedAt:     &suspendedAt,
	}, nil)

	_, _, err := f.svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = f.svc.Login(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = f.svc.Login(ctx, "bob@example.com", "secret1")
	require.ErrorIs(t, err, ErrUserSuspended)
	var suspended *SuspendedError
	require.True(t, errors.As(err, &suspended))
	assert.Equal(t, "spam", suspended.Suspension.Reason)
	assert.Equal(t, &suspendedAt, suspended.Suspension.SuspendedAt)
}

func TestAuthService_ParseTokenRejectsBadTokens(t *testing.T) {
	f := newAuthFixture()
	user := &domain.User{ID: primitive.NewObjectID()}

	token, err := f.svc.generateJWT(user)
	require.NoError(t, err)
	_, err = f.svc.ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newAuthFixture()
	other.svc.jwtSecret = []byte("another-secret")
	foreign, err := other.svc.generateJWT(user)
	require.NoError(t, err)
	_, err = f.svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	f.svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := f.svc.generateJWT(user)
	require.NoError(t, err)
	_, err = f.svc.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
