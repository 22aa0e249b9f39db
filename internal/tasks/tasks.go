// Package tasks defines the asynq task types and the enqueue side.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeThumbnailRender = "preview:thumbnail"
)

// ThumbnailRenderPayload carries the template id and the self-contained
// HTML document the client compiled for rendering.
type ThumbnailRenderPayload struct {
	TemplateID string `json:"templateId"`
	HTML       string `json:"html"`
}

// Enqueuer wraps the asynq client for producing tasks.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates an Enqueuer.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	if client == nil {
		panic("asynq client cannot be nil for Enqueuer")
	}
	return &Enqueuer{client: client}
}

// EnqueueThumbnailRender queues a render on the low queue. Renders are
// deduplicated per template while one is pending.
func (e *Enqueuer) EnqueueThumbnailRender(ctx context.Context, templateID, html string) error {
	payload, err := json.Marshal(ThumbnailRenderPayload{TemplateID: templateID, HTML: html})
	if err != nil {
		return fmt.Errorf("marshal thumbnail payload: %w", err)
	}
	task := asynq.NewTask(TypeThumbnailRender, payload)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue("low"),
		asynq.TaskID("thumbnail:"+templateID),
		asynq.MaxRetry(3),
	)
	// The client wraps the conflict sentinel, so plain comparison misses it.
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue thumbnail render: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
