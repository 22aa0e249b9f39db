package repository

import "errors"

// Shared repository errors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a write violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Resource-specific aliases, kept so call sites can express intent without
// naming the generic error.
var (
	ErrUserNotFound         = ErrNotFound
	ErrTemplateNotFound     = ErrNotFound
	ErrAssetNotFound        = ErrNotFound
	ErrSubscriptionNotFound = ErrNotFound
	ErrBlobNotFound         = ErrNotFound
)
