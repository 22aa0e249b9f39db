package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

const (
	minPasswordLength = 8
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// OAuthStateStore persists short-lived OAuth state tokens across the
// provider redirect.
type OAuthStateStore interface {
	SaveOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

// AuthService handles local registration/login and the Google OAuth
// find-or-create flow. Sessions are stateless JWTs.
type AuthService struct {
	userRepo    repository.UserRepository
	stateStore  OAuthStateStore
	oauthConfig *oauth2.Config
	jwtSecret   []byte
	jwtExpiry   time.Duration
}

// NewAuthService creates an AuthService instance. oauthConfig may be nil,
// which disables the Google login routes.
func NewAuthService(userRepo repository.UserRepository, stateStore OAuthStateStore, oauthConfig *oauth2.Config, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		userRepo:    userRepo,
		stateStore:  stateStore,
		oauthConfig: oauthConfig,
		jwtSecret:   []byte(jwtSecretKey),
		jwtExpiry:   time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// ValidateEmail normalizes an address (trim, lowercase) and checks its
// shape. Returns the normalized address or empty when invalid.
func ValidateEmail(email string) string {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr == "" || !emailPattern.MatchString(addr) {
		return ""
	}
	return addr
}

// Register creates a local account and returns the user with a signed
// session token.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	logCtx := logrus.WithField("email", email)

	addr := ValidateEmail(email)
	if addr == "" {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(ctx, addr); err == nil {
		logCtx.Warn("Registration failed: email already in use")
		return nil, "", ErrRegistrationFailed
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking existing email")
		return nil, "", ErrInternalServer
	}

	hashed, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, "", ErrInternalServer
	}

	user := &domain.User{Email: addr, Password: hashed}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Registration failed: email already in use (duplicate entry)")
			return nil, "", ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, "", ErrInternalServer
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign token after registration")
		return nil, "", ErrInternalServer
	}
	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = ""
	return user, token, nil
}

// Login verifies a local password and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	logCtx := logrus.WithField("email", email)

	user, err := s.userRepo.FindByEmail(ctx, ValidateEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return nil, "", ErrAuthenticationFailed
	}
	if user.Password == "" {
		// OAuth-only account; no password to compare against.
		logCtx.Warn("Login attempt failed: account has no password")
		return nil, "", ErrAuthenticationFailed
	}
	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign token during login")
		return nil, "", ErrInternalServer
	}
	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return user, token, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}

// GoogleLoginURL records a fresh state token and returns the provider's
// consent URL.
func (s *AuthService) GoogleLoginURL(ctx context.Context) (string, error) {
	if s.oauthConfig == nil || s.stateStore == nil {
		return "", ErrOAuthDisabled
	}
	state := uuid.NewString()
	if err := s.stateStore.SaveOAuthState(ctx, state); err != nil {
		logrus.WithError(err).Error("Failed to save oauth state")
		return "", ErrInternalServer
	}
	return s.oauthConfig.AuthCodeURL(state), nil
}

// GoogleCallback verifies the returned state, exchanges the code, and
// finds or creates the user bound to the Google profile id.
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (string, error) {
	if s.oauthConfig == nil || s.stateStore == nil {
		return "", ErrOAuthDisabled
	}
	logCtx := logrus.WithField("operation", "GoogleCallback")

	ok, err := s.stateStore.ConsumeOAuthState(ctx, state)
	if err != nil {
		logCtx.WithError(err).Error("Failed to verify oauth state")
		return "", ErrInternalServer
	}
	if !ok {
		logCtx.Warn("OAuth callback with unknown or expired state")
		return "", ErrOAuthStateMismatch
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logCtx.WithError(err).Warn("OAuth code exchange failed")
		return "", ErrAuthenticationFailed
	}

	profile, err := s.fetchGoogleProfile(ctx, token)
	if err != nil {
		logCtx.WithError(err).Error("Failed to fetch google profile")
		return "", ErrInternalServer
	}

	user, err := s.findOrCreateGoogleUser(ctx, profile)
	if err != nil {
		logCtx.WithError(err).Error("Failed to find or create oauth user")
		return "", ErrInternalServer
	}

	sessionToken, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign token after oauth login")
		return "", ErrInternalServer
	}
	logCtx.WithField("user_id", user.ID).Info("User logged in via Google")
	return sessionToken, nil
}

type googleProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (s *AuthService) fetchGoogleProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}
	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("userinfo response missing profile id")
	}
	return &profile, nil
}

func (s *AuthService) findOrCreateGoogleUser(ctx context.Context, profile *googleProfile) (*domain.User, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	user = &domain.User{
		Email:     ValidateEmail(profile.Email),
		GoogleID:  profile.ID,
		FirstName: profile.GivenName,
		LastName:  profile.FamilyName,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) generateJWT(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
