package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository/mocks"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

func newAuthService(t *testing.T, userRepo *mocks.UserRepository) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(userRepo, nil, nil, "test-secret", 24)
	require.NoError(t, err)
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	email := "newbie@example.com"
	password := "StrongPass123"

	// The service clears the user's password after Save returns, so the
	// stored hash is captured here instead of inspected through a matcher.
	var savedHash string
	mockUserRepo.On("FindByEmail", ctx, email).
		Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			userArg := args.Get(1).(*domain.User)
			savedHash = userArg.Password
			userArg.ID = 5
			userArg.CreatedAt = time.Now().Add(-time.Second)
		}).Return(nil).Once()

	user, token, err := authService.Register(ctx, "Newbie@Example.com ", password)

	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(5), user.ID)
	assert.Equal(t, email, user.Email)
	assert.Empty(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedHash), []byte(password)))
	assert.NotEmpty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	email := "taken@example.com"

	existing := &domain.User{ID: 10, Email: email}
	mockUserRepo.On("FindByEmail", ctx, email).Return(existing, nil).Once()

	_, _, err := authService.Register(ctx, email, "password123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	_, _, err := authService.Register(context.Background(), "not-an-email", "password123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidEmail))
	mockUserRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	_, _, err := authService.Register(context.Background(), "ok@example.com", "short")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrWeakPassword))
}

func TestAuthService_Register_SaveFails_DuplicateEntry(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	email := "racer@example.com"

	mockUserRepo.On("FindByEmail", ctx, email).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	_, _, err := authService.Register(ctx, email, "password123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	email := "testuser@example.com"
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Email: email, Password: string(hashedPassword)}

	mockUserRepo.On("FindByEmail", ctx, email).Return(userInDb, nil).Once()

	user, token, err := authService.Login(ctx, email, password)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user)
	assert.Empty(t, user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Once()

	_, token, err := authService.Login(ctx, "ghost@example.com", "password")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	email := "testuser@example.com"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Email: email, Password: string(hashedPassword)}

	mockUserRepo.On("FindByEmail", ctx, email).Return(userInDb, nil).Once()

	_, token, err := authService.Login(ctx, email, "wrongpassword")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_OAuthOnlyAccount(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)
	ctx := context.Background()
	email := "google@example.com"
	userInDb := &domain.User{ID: 2, Email: email, GoogleID: "g-123"}

	mockUserRepo.On("FindByEmail", ctx, email).Return(userInDb, nil).Once()

	_, _, err := authService.Login(ctx, email, "anything")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
}

func TestAuthService_GoogleLoginURL_Disabled(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo)

	_, err := authService.GoogleLoginURL(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrOAuthDisabled))
}
