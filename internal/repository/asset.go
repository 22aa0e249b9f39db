package repository

import (
	"context"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// AssetRepository defines storage and retrieval of uploaded asset records.
type AssetRepository interface {
	// Create inserts a new asset record.
	Create(ctx context.Context, asset *domain.Asset) error

	// FindByStorageID looks an asset up by its storage id. Returns
	// ErrAssetNotFound when absent or soft-deleted.
	FindByStorageID(ctx context.Context, storageID string) (*domain.Asset, error)

	// FindByOwner returns one page of the owner's non-deleted assets,
	// newest first. OwnerID 0 selects anonymous uploads.
	FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]domain.Asset, error)

	// SoftDelete flags an asset as deleted without touching the blob.
	SoftDelete(ctx context.Context, storageID string) error
}
