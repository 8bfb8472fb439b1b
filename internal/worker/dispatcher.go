package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/tasks"
)

// Enqueuer is the part of *asynq.Client the Dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher turns change events into revalidation tasks. It satisfies
// service.Invalidator.
type Dispatcher struct {
	client Enqueuer
	queue  string
}

// NewDispatcher creates a Dispatcher enqueueing onto queue ("critical" if empty).
func NewDispatcher(client Enqueuer, queue string) *Dispatcher {
	if client == nil {
		panic("asynq client cannot be nil for Dispatcher")
	}
	if queue == "" {
		queue = "critical"
	}
	return &Dispatcher{client: client, queue: queue}
}

func (d *Dispatcher) Invalidate(ctx context.Context, event domain.ChangeEvent) error {
	task, err := tasks.NewViewRevalidateTask(event)
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue(d.queue))
	if err != nil {
		return fmt.Errorf("enqueue %s for post %d: %w", tasks.TypeViewRevalidate, event.PostID, err)
	}
	logrus.WithFields(logrus.Fields{
		"task_id": info.ID,
		"post_id": event.PostID,
		"kind":    event.Kind,
	}).Debug("Enqueued view revalidation")
	return nil
}
