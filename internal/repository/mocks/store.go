// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"catalog-admin/internal/repository"
)

// Store is a mock of repository.Store. WithinTx records the call and, unless
// an error is configured, runs fn against the same mock.
type Store struct {
	mock.Mock
}

func (m *Store) Users() repository.UserRepository {
	args := m.Called()
	return args.Get(0).(repository.UserRepository)
}

func (m *Store) Posts() repository.PostRepository {
	args := m.Called()
	return args.Get(0).(repository.PostRepository)
}

func (m *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}
