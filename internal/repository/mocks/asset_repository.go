package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// AssetRepository is a mock of repository.AssetRepository.
type AssetRepository struct {
	mock.Mock
}

func (m *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *AssetRepository) FindByStorageID(ctx context.Context, storageID string) (*domain.Asset, error) {
	args := m.Called(ctx, storageID)
	if a := args.Get(0); a != nil {
		return a.(*domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssetRepository) FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]domain.Asset, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if a := args.Get(0); a != nil {
		return a.([]domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssetRepository) SoftDelete(ctx context.Context, storageID string) error {
	args := m.Called(ctx, storageID)
	return args.Error(0)
}
