// Package errors defines the typed errors shared by the corpus packages.
//
// Every type unwraps to one of the sentinels below unless it carries its
// own cause, so callers can branch with errors.Is without knowing the
// concrete type.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported")
	// ErrCorrupt marks persisted data that failed an integrity check.
	ErrCorrupt = errors.New("corrupt data")
)

// NotFoundError reports a missing book, source or snapshot.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError reports caller input that was rejected.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError wraps a failed file or store operation. Path is a file path or a
// store key.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports undecodable source text or a malformed reference.
type ParseError struct {
	Format  string
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError reports a source whose layout no extractor recognizes.
type UnsupportedError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// CorruptError reports a persisted record that cannot be trusted. The cache
// treats it as a miss.
type CorruptError struct {
	Key    string
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt %s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt %s: %s", e.Key, e.Reason)
}

// Unwrap returns both the cause and ErrCorrupt, so either matches.
func (e *CorruptError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCorrupt, e.Err}
	}
	return []error{ErrCorrupt}
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

func NewCorrupt(key, reason string, err error) *CorruptError {
	return &CorruptError{Key: key, Reason: reason, Err: err}
}

// Wrap adds context to err. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is is errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target any) bool { return errors.As(err, target) }
