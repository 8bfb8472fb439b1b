package service

import (
	"errors"

	"catalog-admin/internal/repository"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrPostNotFound         = errors.New("not found")
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInternalServer       = errors.New("internal server error")
)

// User-facing validation messages.
const (
	MsgCreateRequired = "Title and author email are required"
	MsgUpdateRequired = "Post id and title are required"
	MsgIDRequired     = "Post id is required"
	MsgTitleEmpty     = "Title cannot be empty"
)

// ValidationError is a user-correctable input problem. It matches ErrInvalidInput
// under errors.Is and its message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(msg string) error {
	return &ValidationError{Message: msg}
}

// mapRepoError maps repository errors onto service errors.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrPostNotFound
	case repository.IsConstraintViolation(err):
		return ErrConstraintViolation
	case errors.Is(err, repository.ErrInvalidInput):
		return invalidInput(MsgTitleEmpty)
	default:
		return ErrInternalServer
	}
}
