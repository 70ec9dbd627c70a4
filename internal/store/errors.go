package store

import (
	"errors"
	"eventdesk/internal/models"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("event not found")
)

// ValidationError reports required fields that were left empty. The store is
// unchanged when it is returned.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill required fields: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an id with no matching event.
type NotFoundError struct {
	ID models.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %q not found", string(e.ID))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DeserializationError describes persisted content that could not be decoded.
// It is logged during load and never returned from New.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

func validate(d models.Draft) error {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
