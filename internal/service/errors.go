package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: email already in use")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrWeakPassword         = errors.New("password must be at least 8 characters long")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrInvalidPlan          = errors.New("unknown subscription plan")
	ErrOAuthStateMismatch   = errors.New("oauth state invalid or expired")
	ErrOAuthDisabled        = errors.New("oauth login is not configured")
	ErrInternalServer       = errors.New("internal server error")
)
