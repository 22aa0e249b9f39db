package repository

import (
	"context"
	"io"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// Thumbnail variants stored for a template.
const (
	ThumbVariantPreview = "preview"
	ThumbVariantThumb   = "thumb"
)

// BlobStore defines the object-storage boundary: template documents, asset
// binaries and rendered thumbnails. Every call is a fallible remote call;
// callers do not retry. Template writes are full overwrites with no version
// check — last writer wins — so a future version-checked store can replace
// this implementation without touching the session coordinator.
type BlobStore interface {
	// PutTemplate overwrites the serialized document for a template.
	PutTemplate(ctx context.Context, templateID string, doc *domain.TemplateDocument) error

	// GetTemplate fetches and decodes the document. Returns
	// ErrBlobNotFound when no document has been saved yet.
	GetTemplate(ctx context.Context, templateID string) (*domain.TemplateDocument, error)

	// PutAsset streams an uploaded asset binary into the store.
	PutAsset(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// GetAssetString fetches an asset binary as a string (used to inline
	// raw SVG markup).
	GetAssetString(ctx context.Context, key string) (string, error)

	// PutThumbnail stores a rendered preview image for a template.
	// Variant is ThumbVariantPreview or ThumbVariantThumb; format is the
	// image extension ("png", "jpeg").
	PutThumbnail(ctx context.Context, templateID, variant, format string, data []byte) error

	// Exists reports whether an object is present under the key.
	Exists(ctx context.Context, key string) (bool, error)

	// ObjectURL returns the public URL for a stored object.
	ObjectURL(key string) string
}

// ThumbnailKey builds the object key for a template preview image variant.
func ThumbnailKey(templateID, variant, format string) string {
	return "templates/" + templateID + "_" + variant + "." + format
}

// TemplateKey builds the object key for a template document.
func TemplateKey(templateID string) string {
	return "templates/" + templateID + ".json"
}
