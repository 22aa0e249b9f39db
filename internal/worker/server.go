// Package worker runs the asynq consumer for background jobs.
package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/tasks"
)

// WorkerServer wraps the asynq server lifecycle.
type WorkerServer struct {
	server         *asynq.Server
	log            *logrus.Entry
	previewService *service.PreviewService
}

// NewWorkerServer creates a WorkerServer.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, previewService *service.PreviewService, logger *logrus.Logger) *WorkerServer {
	if previewService == nil {
		panic("PreviewService cannot be nil for WorkerServer")
	}
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID := ""
				if rw := task.ResultWriter(); rw != nil {
					taskID = rw.TaskID()
				}
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_id":   taskID,
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &WorkerServer{
		server:         server,
		log:            logEntry,
		previewService: previewService,
	}
}

// Start runs the worker server. Call in its own goroutine.
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()

	thumbnailHandler := NewThumbnailRenderHandler(ws.previewService)
	mux.HandleFunc(tasks.TypeThumbnailRender, thumbnailHandler.ProcessTask)

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		}
		ws.log.Info("Worker server stopped.")
	}
}

// Shutdown drains in-flight tasks and stops the server.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
