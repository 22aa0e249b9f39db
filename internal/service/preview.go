package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

const (
	thumbnailWidth      = 400
	thumbnailJPGQuality = 80
)

// PreviewRenderer renders an HTML document to a screenshot. The chromedp
// implementation lives in infra.
type PreviewRenderer interface {
	RenderImage(ctx context.Context, html string) ([]byte, error)
}

// PreviewService produces template preview images: a full-size screenshot
// and a downsized listing thumbnail.
type PreviewService struct {
	renderer     PreviewRenderer
	blobStore    repository.BlobStore
	templateRepo repository.TemplateRepository
}

// NewPreviewService creates a PreviewService instance.
func NewPreviewService(renderer PreviewRenderer, blobStore repository.BlobStore, templateRepo repository.TemplateRepository) *PreviewService {
	if renderer == nil || blobStore == nil || templateRepo == nil {
		panic("PreviewRenderer, BlobStore and TemplateRepository cannot be nil for PreviewService")
	}
	return &PreviewService{renderer: renderer, blobStore: blobStore, templateRepo: templateRepo}
}

// GenerateThumbnails renders the template HTML and stores both preview
// variants. Runs on the worker, off the websocket path.
func (s *PreviewService) GenerateThumbnails(ctx context.Context, templateID, html string) error {
	logCtx := logrus.WithField("template_id", templateID)

	screenshot, err := s.renderer.RenderImage(ctx, html)
	if err != nil {
		return fmt.Errorf("render template preview: %w", err)
	}
	if err := s.blobStore.PutThumbnail(ctx, templateID, repository.ThumbVariantPreview, "png", screenshot); err != nil {
		return fmt.Errorf("store preview image: %w", err)
	}

	thumb, err := ResizeThumbnail(screenshot)
	if err != nil {
		return fmt.Errorf("resize thumbnail: %w", err)
	}
	if err := s.blobStore.PutThumbnail(ctx, templateID, repository.ThumbVariantThumb, "jpeg", thumb); err != nil {
		return fmt.Errorf("store thumbnail image: %w", err)
	}

	logCtx.Info("Template thumbnails generated")
	return nil
}

// StoreUploadedPreview accepts a client-rendered screenshot and derives the
// thumbnail from it server side. The caller must own the template (unowned
// templates follow the save rule: anyone may write them).
func (s *PreviewService) StoreUploadedPreview(ctx context.Context, userID uint, templateID string, r io.Reader) error {
	tpl, err := s.templateRepo.FindByTemplateID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("load template for preview upload: %w", err)
	}
	if tpl.OwnerID != 0 && tpl.OwnerID != userID {
		logrus.WithFields(logrus.Fields{
			"template_id": templateID,
			"user_id":     userID,
			"owner_id":    tpl.OwnerID,
		}).Warn("Preview upload rejected: actor does not own template")
		return ErrTemplateNotFound
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read uploaded preview: %w", err)
	}
	if err := s.blobStore.PutThumbnail(ctx, templateID, repository.ThumbVariantPreview, "png", data); err != nil {
		return fmt.Errorf("store preview image: %w", err)
	}
	thumb, err := ResizeThumbnail(data)
	if err != nil {
		return fmt.Errorf("resize thumbnail: %w", err)
	}
	if err := s.blobStore.PutThumbnail(ctx, templateID, repository.ThumbVariantThumb, "jpeg", thumb); err != nil {
		return fmt.Errorf("store thumbnail image: %w", err)
	}
	return nil
}

// ResizeThumbnail downsizes a screenshot to the listing thumbnail width and
// re-encodes it as JPEG.
func ResizeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	resized := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(thumbnailJPGQuality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
