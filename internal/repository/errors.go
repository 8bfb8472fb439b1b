package repository

import "errors"

// Common repository errors. Implementations translate driver errors into these.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a unique constraint was violated.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	// ErrForeignKeyViolation means a referenced row is missing or still referenced.
	ErrForeignKeyViolation = errors.New("repository: foreign key violation")
	// ErrInvalidInput means a required column value was missing.
	ErrInvalidInput = errors.New("repository: invalid input")
	// ErrCacheMiss is returned by caches that hold no entry for the key.
	ErrCacheMiss = errors.New("repository: cache miss")
)

var (
	ErrUserNotFound = ErrNotFound
	ErrPostNotFound = ErrNotFound
)

// IsConstraintViolation reports whether err stems from a uniqueness or
// foreign-key constraint.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrDuplicateEntry) || errors.Is(err, ErrForeignKeyViolation)
}
