// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Store errors.
	ErrNotFound      = errors.New("not found")
	ErrSlotCorrupted = errors.New("stored value corrupted")

	// Mirror errors.
	ErrMirrorUnavailable = errors.New("remote mirror unreachable")
	ErrStaleRow          = errors.New("remote row already transitioned")
	ErrNoRemoteIdentity  = errors.New("no remote identity configured")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError indicates user input that failed checks before any
// mutation took place. The operation is aborted and the user re-prompted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a named input field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// SyncError indicates a remote mirror call failed. Depending on the
// operation the caller either degrades gracefully (loan creation) or aborts
// with local state untouched (accept/reject/settle).
type SyncError struct {
	Err error
	Op  string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError wraps a mirror failure with the operation that triggered it.
func NewSyncError(op string, err error) error {
	return &SyncError{Op: op, Err: err}
}

// PersistenceError indicates the local store failed to read or write a slot.
// These are logged and the operation continues with in-memory state only.
type PersistenceError struct {
	Err error
	Key string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %q failed: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps a store failure with the slot key involved.
func NewPersistenceError(key string, err error) error {
	return &PersistenceError{Key: key, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry. Stale-row
// failures never retry: the authoritative state has moved on and the caller
// must re-sync instead.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrStaleRow) {
		return false
	}

	if errors.Is(err, ErrMirrorUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
