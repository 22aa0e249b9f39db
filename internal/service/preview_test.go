package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository/mocks"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// rendererMock is a testify mock of service.PreviewRenderer.
type rendererMock struct {
	mock.Mock
}

func (m *rendererMock) RenderImage(ctx context.Context, html string) ([]byte, error) {
	args := m.Called(ctx, html)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeScreenshot encodes a solid 1600x900 PNG.
func fakeScreenshot(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1600, 900))
	for y := 0; y < 900; y++ {
		for x := 0; x < 1600; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResizeThumbnail_DownsizesToTargetWidth(t *testing.T) {
	data := fakeScreenshot(t)

	thumb, err := service.ResizeThumbnail(data)

	require.NoError(t, err)
	decoded, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	// Aspect ratio preserved: 1600x900 -> 400x225.
	assert.Equal(t, 225, decoded.Bounds().Dy())
}

func TestResizeThumbnail_RejectsGarbage(t *testing.T) {
	_, err := service.ResizeThumbnail([]byte("not an image"))
	assert.Error(t, err)
}

func newPreviewFixture(t *testing.T) (*service.PreviewService, *rendererMock, *mocks.BlobStore, *mocks.TemplateRepository) {
	t.Helper()
	renderer := new(rendererMock)
	blobStore := new(mocks.BlobStore)
	templateRepo := new(mocks.TemplateRepository)
	svc := service.NewPreviewService(renderer, blobStore, templateRepo)
	return svc, renderer, blobStore, templateRepo
}

func TestPreviewService_GenerateThumbnails_StoresBothVariants(t *testing.T) {
	svc, renderer, blobStore, _ := newPreviewFixture(t)
	ctx := context.Background()
	screenshot := fakeScreenshot(t)

	renderer.On("RenderImage", mock.Anything, "<html></html>").Return(screenshot, nil).Once()
	blobStore.On("PutThumbnail", mock.Anything, "landing-1", repository.ThumbVariantPreview, "png", screenshot).
		Return(nil).Once()
	blobStore.On("PutThumbnail", mock.Anything, "landing-1", repository.ThumbVariantThumb, "jpeg", mock.AnythingOfType("[]uint8")).
		Return(nil).Once()

	err := svc.GenerateThumbnails(ctx, "landing-1", "<html></html>")

	require.NoError(t, err)
	renderer.AssertExpectations(t)
	blobStore.AssertExpectations(t)
}

func TestPreviewService_GenerateThumbnails_RenderFailure(t *testing.T) {
	svc, renderer, blobStore, _ := newPreviewFixture(t)

	renderer.On("RenderImage", mock.Anything, mock.Anything).
		Return(nil, errors.New("chrome crashed")).Once()

	err := svc.GenerateThumbnails(context.Background(), "landing-1", "<html></html>")

	require.Error(t, err)
	blobStore.AssertNotCalled(t, "PutThumbnail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPreviewService_StoreUploadedPreview(t *testing.T) {
	svc, renderer, blobStore, templateRepo := newPreviewFixture(t)
	screenshot := fakeScreenshot(t)

	owned := &domain.Template{TemplateID: "landing-1", OwnerID: 7}
	templateRepo.On("FindByTemplateID", mock.Anything, "landing-1").Return(owned, nil).Once()
	blobStore.On("PutThumbnail", mock.Anything, "landing-1", repository.ThumbVariantPreview, "png", screenshot).
		Return(nil).Once()
	blobStore.On("PutThumbnail", mock.Anything, "landing-1", repository.ThumbVariantThumb, "jpeg", mock.AnythingOfType("[]uint8")).
		Return(nil).Once()

	err := svc.StoreUploadedPreview(context.Background(), 7, "landing-1", bytes.NewReader(screenshot))

	require.NoError(t, err)
	blobStore.AssertExpectations(t)
	renderer.AssertNotCalled(t, "RenderImage", mock.Anything, mock.Anything)
}

func TestPreviewService_StoreUploadedPreview_RejectsNonOwner(t *testing.T) {
	svc, _, blobStore, templateRepo := newPreviewFixture(t)
	screenshot := fakeScreenshot(t)

	owned := &domain.Template{TemplateID: "landing-1", OwnerID: 7}
	templateRepo.On("FindByTemplateID", mock.Anything, "landing-1").Return(owned, nil).Once()

	err := svc.StoreUploadedPreview(context.Background(), 9, "landing-1", bytes.NewReader(screenshot))

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTemplateNotFound))
	blobStore.AssertNotCalled(t, "PutThumbnail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPreviewService_StoreUploadedPreview_UnknownTemplate(t *testing.T) {
	svc, _, blobStore, templateRepo := newPreviewFixture(t)

	templateRepo.On("FindByTemplateID", mock.Anything, "ghost").
		Return(nil, repository.ErrTemplateNotFound).Once()

	err := svc.StoreUploadedPreview(context.Background(), 7, "ghost", bytes.NewReader(fakeScreenshot(t)))

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTemplateNotFound))
	blobStore.AssertNotCalled(t, "PutThumbnail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
