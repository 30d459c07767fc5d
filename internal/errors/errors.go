// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")
)

// Dispatch pipeline errors. These form the error taxonomy the dashboard branches
// on: each maps to a distinct remediation action (wait, reconnect, retry later).
var (
	// ErrRateLimited indicates the tenant's posting budget for the window is
	// exhausted. Never fatal; the caller should retry in a later window.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotConnected indicates no active connection for the requested platform.
	// User-actionable: the tenant must (re)connect the platform.
	ErrNotConnected = errors.New("platform not connected")

	// ErrConnectionConflict indicates more than one active connection matched the
	// requested platform. Surfaced as a configuration conflict rather than
	// silently picking one.
	ErrConnectionConflict = errors.New("multiple active connections for platform")

	// ErrCapabilityNotFound indicates no remote tool matched the requested
	// capability in the tenant's live catalog.
	ErrCapabilityNotFound = errors.New("capability not found")

	// ErrUpstreamUnavailable indicates the downstream execution service is
	// unreachable. Operator-actionable; safe to retry later.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrInvalidTransition indicates a work item state transition that the
	// lifecycle forbids (e.g. pausing an item that is already posting). Under
	// correct concurrency control this points at a bug or a stale client.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
