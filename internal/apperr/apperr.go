// Package apperr defines the failure taxonomy shared by the order workflow,
// the folder store and the HTTP layer.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation       = errors.New("validation failure")
	ErrStorageProvision = errors.New("storage provision failure")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInitialization   = errors.New("initialization failure")
)

// Phase names the folder-store step that failed.
type Phase string

const (
	PhaseCreateFolder    Phase = "create_folder"
	PhaseWriteMetadata   Phase = "write_metadata"
	PhaseWriteAttachment Phase = "write_attachment"
	PhaseWriteSelections Phase = "write_selections"
	PhaseDeleteFolder    Phase = "delete_folder"
)

// StorageError reports which persistence phase failed and for which target
// (folder or file name).
type StorageError struct {
	Phase  Phase
	Target string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Phase, e.Target, e.Err)
}

// Unwrap exposes both the provision sentinel and the provider cause.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageProvision, e.Err}
}

// NewStorageError wraps err with the phase it happened in.
func NewStorageError(phase Phase, target string, err error) error {
	return &StorageError{Phase: phase, Target: target, Err: err}
}

// Validation returns an ErrValidation with a formatted detail.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Initialization wraps a startup failure of an external collaborator.
func Initialization(component string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInitialization, component, err)
}

// PhaseOf returns the failed phase of a storage error, or "".
func PhaseOf(err error) Phase {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Phase
	}
	return ""
}

// Kind classifies err for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, ErrInitialization):
		return "initialization"
	case errors.Is(err, ErrStorageProvision):
		return "storage"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}

// HTTPStatus maps err to the status code the order endpoints respond with.
// Only a missing order is distinguished; every other failure is a 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
