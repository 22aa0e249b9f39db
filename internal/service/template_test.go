package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository/mocks"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

func TestTemplateService_GetTemplate_WithDocument(t *testing.T) {
	templateRepo := new(mocks.TemplateRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewTemplateService(templateRepo, blobStore)
	ctx := context.Background()

	tpl := &domain.Template{TemplateID: "landing-1", Title: "Landing"}
	doc := &domain.TemplateDocument{TemplateID: "landing-1"}
	templateRepo.On("FindByTemplateID", ctx, "landing-1").Return(tpl, nil).Once()
	blobStore.On("GetTemplate", ctx, "landing-1").Return(doc, nil).Once()

	view, err := svc.GetTemplate(ctx, "landing-1")

	require.NoError(t, err)
	assert.Equal(t, tpl, view.Template)
	assert.Equal(t, doc, view.Document)
}

func TestTemplateService_GetTemplate_NoBlobYet(t *testing.T) {
	templateRepo := new(mocks.TemplateRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewTemplateService(templateRepo, blobStore)
	ctx := context.Background()

	tpl := &domain.Template{TemplateID: "landing-1"}
	templateRepo.On("FindByTemplateID", ctx, "landing-1").Return(tpl, nil).Once()
	blobStore.On("GetTemplate", ctx, "landing-1").Return(nil, repository.ErrBlobNotFound).Once()

	view, err := svc.GetTemplate(ctx, "landing-1")

	require.NoError(t, err)
	assert.Nil(t, view.Document)
}

func TestTemplateService_GetTemplate_NotFound(t *testing.T) {
	templateRepo := new(mocks.TemplateRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewTemplateService(templateRepo, blobStore)
	ctx := context.Background()

	templateRepo.On("FindByTemplateID", ctx, "missing").
		Return(nil, repository.ErrTemplateNotFound).Once()

	_, err := svc.GetTemplate(ctx, "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTemplateNotFound))
	blobStore.AssertNotCalled(t, "GetTemplate", mock.Anything, mock.Anything)
}

func TestTemplateService_ListTemplates_ResolvesThumbnails(t *testing.T) {
	templateRepo := new(mocks.TemplateRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewTemplateService(templateRepo, blobStore)
	ctx := context.Background()

	templates := []domain.Template{
		{TemplateID: "with-thumb", Title: "A", Tags: "dark,saas", PageCount: 2},
		{TemplateID: "without-thumb", Title: "B", PageCount: 1},
	}
	templateRepo.On("FindByOwner", ctx, uint(5), 0, 10).Return(templates, nil).Once()

	withKey := repository.ThumbnailKey("with-thumb", repository.ThumbVariantThumb, "jpeg")
	withoutKey := repository.ThumbnailKey("without-thumb", repository.ThumbVariantThumb, "jpeg")
	blobStore.On("Exists", ctx, withKey).Return(true, nil).Once()
	blobStore.On("ObjectURL", withKey).Return("https://cdn.example.com/" + withKey).Once()
	blobStore.On("Exists", ctx, withoutKey).Return(false, nil).Once()

	summaries, isMore, err := svc.ListTemplates(ctx, 5, 0)

	require.NoError(t, err)
	assert.False(t, isMore)
	require.Len(t, summaries, 2)
	assert.Equal(t, "https://cdn.example.com/"+withKey, summaries[0].Thumbnail)
	assert.Equal(t, []string{"dark", "saas"}, summaries[0].Tags)
	assert.Empty(t, summaries[1].Thumbnail)
}

func TestTemplateService_ListTemplates_PaginationSignal(t *testing.T) {
	templateRepo := new(mocks.TemplateRepository)
	blobStore := new(mocks.BlobStore)
	svc := service.NewTemplateService(templateRepo, blobStore)
	ctx := context.Background()

	fullPage := make([]domain.Template, 10)
	for i := range fullPage {
		fullPage[i] = domain.Template{TemplateID: "t"}
	}
	templateRepo.On("FindByOwner", ctx, uint(5), 10, 10).Return(fullPage, nil).Once()
	blobStore.On("Exists", mock.Anything, mock.Anything).Return(false, nil)

	_, isMore, err := svc.ListTemplates(ctx, 5, 1)

	require.NoError(t, err)
	assert.True(t, isMore)
}
