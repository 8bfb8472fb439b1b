package repository

import "context"

// Store groups the repositories of one database handle.
type Store interface {
	Users() UserRepository
	Posts() PostRepository

	// WithinTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
