package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

// GormAssetRepository is the GORM implementation of AssetRepository.
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a GormAssetRepository instance.
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAssetRepository")
	}
	return &GormAssetRepository{db: db}
}

func (r *GormAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	err := r.db.WithContext(ctx).Create(asset).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create asset '%s': %w", asset.StorageID, err)
	}
	return nil
}

func (r *GormAssetRepository) FindByStorageID(ctx context.Context, storageID string) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).
		Where("storage_id = ? AND deleted = ?", storageID, false).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAssetNotFound
		}
		return nil, fmt.Errorf("gorm: find asset '%s': %w", storageID, err)
	}
	return &asset, nil
}

func (r *GormAssetRepository) FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]domain.Asset, error) {
	var assets []domain.Asset
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND deleted = ?", ownerID, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list assets for owner %d: %w", ownerID, err)
	}
	return assets, nil
}

func (r *GormAssetRepository) SoftDelete(ctx context.Context, storageID string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("storage_id = ?", storageID).
		Update("deleted", true)
	if result.Error != nil {
		return fmt.Errorf("gorm: soft-delete asset '%s': %w", storageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrAssetNotFound
	}
	return nil
}
