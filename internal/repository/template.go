package repository

import (
	"context"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// TemplateRepository defines storage and retrieval of template metadata
// records. The serialized page content is a separate blob handled by
// BlobStore; the two are linked by the template's user-supplied slug.
type TemplateRepository interface {
	// FindByTemplateID looks a metadata record up by its slug. Returns
	// ErrTemplateNotFound when absent.
	FindByTemplateID(ctx context.Context, templateID string) (*domain.Template, error)

	// Create inserts a new metadata record. A slug collision surfaces as
	// ErrDuplicateEntry.
	Create(ctx context.Context, template *domain.Template) error

	// Save persists changes to an existing record.
	Save(ctx context.Context, template *domain.Template) error

	// FindByOwner returns one page of the owner's templates, newest
	// first.
	FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]domain.Template, error)
}
