// Package tasks defines the background task types and their payloads.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"catalog-admin/internal/domain"
)

const (
	// TypeViewRevalidate evicts the cached listing and fans the change out
	// to every connected view.
	TypeViewRevalidate = "view:revalidate"
)

// ViewRevalidatePayload carries the committed change.
type ViewRevalidatePayload struct {
	Event domain.ChangeEvent `json:"event"`
}

// NewViewRevalidateTask builds a revalidation task for event.
func NewViewRevalidateTask(event domain.ChangeEvent) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(ViewRevalidatePayload{Event: event})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal revalidate payload: %w", err)
	}
	return asynq.NewTask(TypeViewRevalidate, payloadBytes, asynq.MaxRetry(3)), nil
}

// ParseViewRevalidatePayload decodes a task payload.
func ParseViewRevalidatePayload(data []byte) (ViewRevalidatePayload, error) {
	var payload ViewRevalidatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
