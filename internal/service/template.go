package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

const templatesPerPage = 10

// TemplateView joins a metadata record with its serialized document. The
// document is nil when the template has never been saved through a session.
type TemplateView struct {
	Template *domain.Template         `json:"template"`
	Document *domain.TemplateDocument `json:"document"`
}

// TemplateSummary is one list entry with a resolved thumbnail URL.
type TemplateSummary struct {
	TemplateID string   `json:"templateId"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	PageCount  int      `json:"pageCount"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
}

// TemplateService reads templates outside of live sessions: single
// template fetches for the editor and paginated owner listings.
type TemplateService struct {
	templateRepo repository.TemplateRepository
	blobStore    repository.BlobStore
}

// NewTemplateService creates a TemplateService instance.
func NewTemplateService(templateRepo repository.TemplateRepository, blobStore repository.BlobStore) *TemplateService {
	if templateRepo == nil || blobStore == nil {
		panic("TemplateRepository and BlobStore cannot be nil for TemplateService")
	}
	return &TemplateService{templateRepo: templateRepo, blobStore: blobStore}
}

// GetTemplate loads metadata plus the stored document. A metadata record
// without a blob (created but never saved) yields a nil document.
func (s *TemplateService) GetTemplate(ctx context.Context, templateID string) (*TemplateView, error) {
	logCtx := logrus.WithField("template_id", templateID)

	tpl, err := s.templateRepo.FindByTemplateID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		logCtx.WithError(err).Error("Failed to load template metadata")
		return nil, ErrInternalServer
	}

	doc, err := s.blobStore.GetTemplate(ctx, templateID)
	if err != nil {
		if !errors.Is(err, repository.ErrBlobNotFound) {
			logCtx.WithError(err).Error("Failed to load template document")
			return nil, ErrInternalServer
		}
		doc = nil
	}
	return &TemplateView{Template: tpl, Document: doc}, nil
}

// ListTemplates returns one page of the owner's templates. isMore signals
// whether the client should request the next page.
func (s *TemplateService) ListTemplates(ctx context.Context, ownerID uint, page int) ([]TemplateSummary, bool, error) {
	if page < 0 {
		page = 0
	}
	templates, err := s.templateRepo.FindByOwner(ctx, ownerID, page*templatesPerPage, templatesPerPage)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Failed to list templates")
		return nil, false, ErrInternalServer
	}

	summaries := make([]TemplateSummary, 0, len(templates))
	for i := range templates {
		tpl := &templates[i]
		summaries = append(summaries, TemplateSummary{
			TemplateID: tpl.TemplateID,
			Title:      tpl.Title,
			Tags:       tpl.TagList(),
			PageCount:  tpl.PageCount,
			Thumbnail:  s.thumbnailURL(ctx, tpl.TemplateID),
		})
	}
	return summaries, len(templates) >= templatesPerPage, nil
}

// thumbnailURL resolves the thumb variant URL, empty when no thumbnail has
// been rendered yet. Lookup errors degrade to an empty thumbnail.
func (s *TemplateService) thumbnailURL(ctx context.Context, templateID string) string {
	key := repository.ThumbnailKey(templateID, repository.ThumbVariantThumb, "jpeg")
	ok, err := s.blobStore.Exists(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("template_id", templateID).Warn("Thumbnail lookup failed")
		return ""
	}
	if !ok {
		return ""
	}
	return s.blobStore.ObjectURL(key)
}
