package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/middleware"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// AuthHandler exposes local auth and the Google OAuth flow.
type AuthHandler struct {
	authService *service.AuthService
	appURL      string
}

// NewAuthHandler creates an AuthHandler. appURL is where OAuth callbacks
// redirect back to with the session token.
func NewAuthHandler(authService *service.AuthService, appURL string) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	return &AuthHandler{authService: authService, appURL: appURL}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Auth  bool        `json:"auth"`
	Token string      `json:"token,omitempty"`
	User  interface{} `json:"user,omitempty"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, authResponse{Auth: true, Token: token, User: user})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, authResponse{Auth: true, Token: token, User: user})
}

// Check handles GET /auth/check. Runs behind the Auth middleware and
// returns the current user.
func (h *AuthHandler) Check(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, authResponse{Auth: true, User: user})
}

// GoogleLogin handles GET /auth/google and redirects to the consent page.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url, err := h.authService.GoogleLoginURL(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles GET /auth/google/callback and redirects back to
// the app with the session token.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		ErrorResponse(c, http.StatusBadRequest, "Missing state or code parameter")
		return
	}

	token, err := h.authService.GoogleCallback(c.Request.Context(), state, code)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.appURL+"/oauth?token="+token)
}
