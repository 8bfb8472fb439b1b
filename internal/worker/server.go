// Package worker runs background tasks on asynq.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/tasks"
)

// WorkerServer wraps the asynq server that processes revalidation tasks.
type WorkerServer struct {
	server     *asynq.Server
	log        *logrus.Entry
	revalidate *RevalidateHandler
}

// NewWorkerServer creates a WorkerServer. It does not connect until Start.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, revalidate *RevalidateHandler, concurrency int, logger *logrus.Logger) *WorkerServer {
	if revalidate == nil {
		panic("RevalidateHandler cannot be nil for WorkerServer")
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
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
			Logger: logEntry,
		},
	)

	return &WorkerServer{server: server, log: logEntry, revalidate: revalidate}
}

// NewServeMux registers every task handler.
func NewServeMux(revalidate *RevalidateHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeViewRevalidate, revalidate)
	return mux
}

// Start begins processing tasks in background goroutines.
func (ws *WorkerServer) Start() error {
	ws.log.Info("Worker server starting...")
	if err := ws.server.Start(NewServeMux(ws.revalidate)); err != nil {
		if errors.Is(err, asynq.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("could not start worker server: %w", err)
	}
	return nil
}

// Shutdown stops the worker after in-flight tasks finish.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
