package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository/mocks"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

func TestAssetService_UploadAsset_StoresBinaryAndRecord(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()
	body := strings.NewReader("binary-bytes")

	blobStore.On("PutAsset", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "media/") && strings.HasSuffix(key, ".png")
	}), body, int64(12), "image/png").Return(nil).Once()
	assetRepo.On("Create", ctx, mock.MatchedBy(func(asset *domain.Asset) bool {
		assert.NotEmpty(t, asset.StorageID)
		assert.Equal(t, uint(7), asset.OwnerID)
		assert.Equal(t, "hero", asset.Name)
		assert.Equal(t, "png", asset.Extension)
		assert.Equal(t, "hero.PNG", asset.OriginalName)
		return true
	})).Return(nil).Once()
	blobStore.On("ObjectURL", mock.AnythingOfType("string")).Return("https://cdn.example.com/x.png").Once()

	view, err := svc.UploadAsset(ctx, 7, "hero.PNG", "image/png", body, 12)

	require.NoError(t, err)
	assert.True(t, view.IsUpload)
	assert.False(t, view.RawSVG)
	assert.Equal(t, "https://cdn.example.com/x.png", view.URL)
	assetRepo.AssertExpectations(t)
	blobStore.AssertExpectations(t)
}

func TestAssetService_UploadAsset_InlinesSVG(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()
	body := strings.NewReader("<svg/>")

	blobStore.On("PutAsset", ctx, mock.Anything, body, int64(6), "image/svg+xml").Return(nil).Once()
	assetRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	blobStore.On("GetAssetString", ctx, mock.Anything).Return("<svg/>", nil).Once()

	view, err := svc.UploadAsset(ctx, 7, "icon.svg", "image/svg+xml", body, 6)

	require.NoError(t, err)
	assert.True(t, view.RawSVG)
	assert.Equal(t, "<svg/>", view.SVGString)
	assert.Empty(t, view.URL)
}

func TestAssetService_ListAssets_PaginationSignal(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()

	fullPage := make([]domain.Asset, 15)
	for i := range fullPage {
		fullPage[i] = domain.Asset{StorageID: "s", Extension: "png"}
	}
	assetRepo.On("FindByOwner", ctx, uint(7), 0, 15).Return(fullPage, nil).Once()
	blobStore.On("ObjectURL", mock.Anything).Return("https://cdn.example.com/x.png")

	views, isMore, err := svc.ListAssets(ctx, 7, 0)

	require.NoError(t, err)
	assert.True(t, isMore)
	assert.Len(t, views, 15)
}

func TestAssetService_ListAssets_SkipsUnreadableSVG(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()

	page := []domain.Asset{
		{StorageID: "s-1", Extension: "png"},
		{StorageID: "s-2", Extension: "svg"},
	}
	assetRepo.On("FindByOwner", ctx, uint(7), 0, 15).Return(page, nil).Once()
	blobStore.On("ObjectURL", mock.Anything).Return("https://cdn.example.com/x.png").Once()
	blobStore.On("GetAssetString", ctx, mock.Anything).
		Return("", errors.New("object gone")).Once()

	views, isMore, err := svc.ListAssets(ctx, 7, 0)

	require.NoError(t, err)
	assert.False(t, isMore)
	require.Len(t, views, 1)
	assert.Equal(t, "s-1", views[0].ID)
}

func TestAssetService_DeleteAsset_RejectsForeignOwner(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()

	foreign := &domain.Asset{StorageID: "s-1", OwnerID: 99}
	assetRepo.On("FindByStorageID", ctx, "s-1").Return(foreign, nil).Once()

	err := svc.DeleteAsset(ctx, 7, "s-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAssetNotFound))
	assetRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestAssetService_DeleteAsset_SoftDeletesOwned(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()

	owned := &domain.Asset{StorageID: "s-1", OwnerID: 7}
	assetRepo.On("FindByStorageID", ctx, "s-1").Return(owned, nil).Once()
	assetRepo.On("SoftDelete", ctx, "s-1").Return(nil).Once()

	err := svc.DeleteAsset(ctx, 7, "s-1")

	assert.NoError(t, err)
	assetRepo.AssertExpectations(t)
}

func TestAssetService_DeleteAsset_MissingAsset(t *testing.T) {
	assetRepo := new(mocks.AssetRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewAssetService(assetRepo, blobStore)
	ctx := context.Background()

	assetRepo.On("FindByStorageID", ctx, "ghost").
		Return(nil, repository.ErrAssetNotFound).Once()

	err := svc.DeleteAsset(ctx, 7, "ghost")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAssetNotFound))
}
