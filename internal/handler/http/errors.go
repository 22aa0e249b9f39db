package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// HandleServiceError maps business errors to HTTP status codes.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidPlan):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrAssetNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOAuthStateMismatch):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrOAuthDisabled):
		ErrorResponse(c, http.StatusNotImplemented, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
