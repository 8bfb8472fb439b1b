package service

import (
	"context"
	"errors"

	"catalog-admin/internal/domain"
)

// Invalidator receives a ChangeEvent after every committed mutation, telling
// views that what they rendered is stale and must be re-read.
type Invalidator interface {
	Invalidate(ctx context.Context, event domain.ChangeEvent) error
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context, event domain.ChangeEvent) error

func (f InvalidatorFunc) Invalidate(ctx context.Context, event domain.ChangeEvent) error {
	return f(ctx, event)
}

// Invalidators notifies each member in order; all are called even if one fails.
type Invalidators []Invalidator

func (list Invalidators) Invalidate(ctx context.Context, event domain.ChangeEvent) error {
	var errs []error
	for _, inv := range list {
		if inv == nil {
			continue
		}
		if err := inv.Invalidate(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopInvalidator discards events.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, domain.ChangeEvent) error { return nil }
