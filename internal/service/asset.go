package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

const assetsPerPage = 15

// AssetView is the client-facing shape of an asset. Raw SVGs carry their
// markup inline so the editor can recolor them.
type AssetView struct {
	ID           string `json:"id"`
	URL          string `json:"url,omitempty"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Extension    string `json:"extension"`
	IsUpload     bool   `json:"isUpload"`
	RawSVG       bool   `json:"rawSVG"`
	SVGString    string `json:"svgString,omitempty"`
}

// AssetService manages uploaded media: binaries in the object store,
// ownership metadata in MySQL.
type AssetService struct {
	assetRepo repository.AssetRepository
	blobStore repository.BlobStore
}

// NewAssetService creates an AssetService instance.
func NewAssetService(assetRepo repository.AssetRepository, blobStore repository.BlobStore) *AssetService {
	if assetRepo == nil || blobStore == nil {
		panic("AssetRepository and BlobStore cannot be nil for AssetService")
	}
	return &AssetService{assetRepo: assetRepo, blobStore: blobStore}
}

// UploadAsset stores the binary and its metadata record, then returns the
// client view. The storage id is generated here; filename collisions are
// impossible by construction.
func (s *AssetService) UploadAsset(ctx context.Context, ownerID uint, originalName, contentType string, r io.Reader, size int64) (*AssetView, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"owner_id":      ownerID,
		"original_name": originalName,
	})

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if ext == "" {
		ext = "bin"
	}
	asset := &domain.Asset{
		StorageID:    uuid.NewString(),
		OwnerID:      ownerID,
		Name:         strings.TrimSuffix(originalName, filepath.Ext(originalName)),
		Extension:    ext,
		OriginalName: originalName,
	}

	if err := s.blobStore.PutAsset(ctx, asset.StorageKey(), r, size, contentType); err != nil {
		logCtx.WithError(err).Error("Failed to store asset binary")
		return nil, ErrInternalServer
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		logCtx.WithError(err).Error("Failed to create asset record")
		return nil, ErrInternalServer
	}
	logCtx.WithField("storage_id", asset.StorageID).Info("Asset uploaded")

	view, _ := s.viewOK(ctx, asset)
	return &view, nil
}

// ListAssets returns one page of the owner's assets, newest first. Raw SVG
// assets whose markup cannot be fetched are skipped rather than failing the
// whole page.
func (s *AssetService) ListAssets(ctx context.Context, ownerID uint, page int) ([]AssetView, bool, error) {
	if page < 0 {
		page = 0
	}
	assets, err := s.assetRepo.FindByOwner(ctx, ownerID, page*assetsPerPage, assetsPerPage)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Failed to list assets")
		return nil, false, ErrInternalServer
	}

	views := make([]AssetView, 0, len(assets))
	for i := range assets {
		if view, ok := s.viewOK(ctx, &assets[i]); ok {
			views = append(views, view)
		}
	}
	return views, len(assets) == assetsPerPage, nil
}

// DeleteAsset soft-deletes an owned asset. The binary stays in the store;
// only the listing record is hidden.
func (s *AssetService) DeleteAsset(ctx context.Context, ownerID uint, storageID string) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"storage_id": storageID,
	})

	asset, err := s.assetRepo.FindByStorageID(ctx, storageID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		logCtx.WithError(err).Error("Failed to load asset for deletion")
		return ErrInternalServer
	}
	if asset.OwnerID != ownerID {
		logCtx.Warn("Delete rejected: actor does not own asset")
		return ErrAssetNotFound
	}
	if err := s.assetRepo.SoftDelete(ctx, asset.StorageID); err != nil {
		logCtx.WithError(err).Error("Failed to soft-delete asset")
		return ErrInternalServer
	}
	logCtx.Info("Asset deleted")
	return nil
}

func (s *AssetService) viewOK(ctx context.Context, asset *domain.Asset) (AssetView, bool) {
	view := AssetView{
		ID:           asset.StorageID,
		Name:         asset.Name,
		OriginalName: asset.OriginalName,
		Extension:    asset.Extension,
		IsUpload:     true,
		RawSVG:       asset.IsRawSVG(),
	}
	if asset.IsRawSVG() {
		svg, err := s.blobStore.GetAssetString(ctx, asset.StorageKey())
		if err != nil {
			logrus.WithError(err).WithField("storage_id", asset.StorageID).Warn("Failed to inline SVG asset")
			return view, false
		}
		view.SVGString = svg
		return view, true
	}
	view.URL = s.blobStore.ObjectURL(asset.StorageKey())
	return view, true
}
