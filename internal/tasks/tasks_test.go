package tasks_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/tasks"
)

func newEnqueuer(t *testing.T) *tasks.Enqueuer {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	enqueuer := tasks.NewEnqueuer(client)
	t.Cleanup(func() { enqueuer.Close() })
	return enqueuer
}

func TestEnqueuer_DeduplicatesPendingRenders(t *testing.T) {
	enqueuer := newEnqueuer(t)
	ctx := context.Background()

	require.NoError(t, enqueuer.EnqueueThumbnailRender(ctx, "landing-1", "<html></html>"))
	// A second render for the same template while one is pending conflicts
	// on the task id; the conflict is swallowed, not reported.
	assert.NoError(t, enqueuer.EnqueueThumbnailRender(ctx, "landing-1", "<html></html>"))
	// Other templates are unaffected.
	assert.NoError(t, enqueuer.EnqueueThumbnailRender(ctx, "landing-2", "<html></html>"))
}
