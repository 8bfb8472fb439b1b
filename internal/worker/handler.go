package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/tasks"
)

// ChangePublisher fans a change out to every server process.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event domain.ChangeEvent) error
}

// RevalidateHandler processes view revalidation tasks.
type RevalidateHandler struct {
	cache     repository.ListingCache
	publisher ChangePublisher
}

// NewRevalidateHandler creates a handler. cache may be nil.
func NewRevalidateHandler(cache repository.ListingCache, publisher ChangePublisher) *RevalidateHandler {
	if publisher == nil {
		panic("ChangePublisher cannot be nil for RevalidateHandler")
	}
	return &RevalidateHandler{cache: cache, publisher: publisher}
}

// ProcessTask implements asynq.Handler. The listing is evicted again here so a
// read that refilled it with pre-commit rows does not outlive the change.
func (h *RevalidateHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	payload, err := tasks.ParseViewRevalidatePayload(t.Payload())
	if err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithFields(logrus.Fields{"post_id": payload.Event.PostID, "kind": payload.Event.Kind})

	if h.cache != nil {
		if err := h.cache.InvalidateListing(ctx); err != nil {
			logCtx.WithError(err).Error("Failed to evict listing cache")
			return fmt.Errorf("evict listing: %w", err)
		}
	}
	if err := h.publisher.PublishChange(ctx, payload.Event); err != nil {
		logCtx.WithError(err).Error("Failed to publish change")
		return fmt.Errorf("publish change for post %d: %w", payload.Event.PostID, err)
	}

	logCtx.Debug("View revalidation task processed")
	return nil
}
