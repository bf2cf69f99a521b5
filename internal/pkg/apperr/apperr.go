package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateReview is returned by repositories when the store rejects a second review
	// for the same reviewer/target pair. The review service turns it into an update.
	ErrDuplicateReview = errors.New("review already exists")
)

// ValidationError names the offending request field. Fields, when set, holds every
// failing field of the request keyed by JSON name.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// StorageError wraps any failure coming from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err unless it already carries a classification.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsNotFound(err) || IsStorage(err) ||
		errors.Is(err, ErrForbidden) || errors.Is(err, ErrConflict) || errors.Is(err, ErrUnauthorized) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
