package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// BlobStore is a mock of repository.BlobStore.
type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) PutTemplate(ctx context.Context, templateID string, doc *domain.TemplateDocument) error {
	args := m.Called(ctx, templateID, doc)
	return args.Error(0)
}

func (m *BlobStore) GetTemplate(ctx context.Context, templateID string) (*domain.TemplateDocument, error) {
	args := m.Called(ctx, templateID)
	if d := args.Get(0); d != nil {
		return d.(*domain.TemplateDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BlobStore) PutAsset(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *BlobStore) GetAssetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *BlobStore) PutThumbnail(ctx context.Context, templateID, variant, format string, data []byte) error {
	args := m.Called(ctx, templateID, variant, format, data)
	return args.Error(0)
}

func (m *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *BlobStore) ObjectURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
