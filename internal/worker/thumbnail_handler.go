package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/tasks"
)

const renderTaskTimeout = 60 * time.Second

// ThumbnailRenderHandler renders template previews off the websocket path.
type ThumbnailRenderHandler struct {
	previewService *service.PreviewService
}

// NewThumbnailRenderHandler creates the handler.
func NewThumbnailRenderHandler(previewService *service.PreviewService) *ThumbnailRenderHandler {
	if previewService == nil {
		panic("PreviewService cannot be nil for ThumbnailRenderHandler")
	}
	return &ThumbnailRenderHandler{previewService: previewService}
}

// ProcessTask implements asynq.Handler.
func (h *ThumbnailRenderHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
	})

	var payload tasks.ThumbnailRenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal thumbnail payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("template_id", payload.TemplateID)
	logCtx.Info("Processing thumbnail render task...")

	renderCtx, cancel := context.WithTimeout(ctx, renderTaskTimeout)
	defer cancel()
	if err := h.previewService.GenerateThumbnails(renderCtx, payload.TemplateID, payload.HTML); err != nil {
		logCtx.WithError(err).Error("Thumbnail render failed")
		return fmt.Errorf("render thumbnails for %s: %w", payload.TemplateID, err)
	}

	logCtx.Info("Thumbnail render task processed successfully")
	return nil
}
