// Package validation checks paths and sizes of source input before it is
// read, guarding against path traversal and resource exhaustion.
package validation

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// Limits on source input.
const (
	// MaxDocumentSize is the largest raw document accepted, after
	// decompression (256 MB).
	MaxDocumentSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTooLarge         = errors.New("document too large")
)

// ValidatePath rejects empty or overlong paths and paths containing
// control characters.
func ValidatePath(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	if len(p) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range p {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateEntryName checks a slash-separated archive entry name: it must be
// a valid path that stays inside the archive root.
func ValidateEntryName(name string) error {
	if err := ValidatePath(name); err != nil {
		return err
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: absolute entry %q", ErrPathTraversal, name)
	}
	if clean := path.Clean(name); clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: entry %q", ErrPathTraversal, name)
	}
	return nil
}

// CheckSize rejects a document larger than MaxDocumentSize.
func CheckSize(name string, size int64) error {
	return CheckSizeLimit(name, size, MaxDocumentSize)
}

// CheckSizeLimit rejects a document larger than limit bytes.
func CheckSizeLimit(name string, size, limit int64) error {
	if size > limit {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, name, size, limit)
	}
	return nil
}
