package core

// validation.go holds the error kinds raised while reading sources and
// parsing query parameters.
//
// Two sentinels classify every failure the caller can act on:
//  1. ErrNotFound: a mandatory input is missing, or a lookup matched nothing
//  2. ErrValidation: input exists but is structurally unusable
//
// Anything else is an internal failure.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a missing mandatory file or an empty lookup.
	ErrNotFound = errors.New("not found")

	// ErrValidation reports structurally invalid input.
	ErrValidation = errors.New("validation failed")
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column/parameter name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SourceError ties a read failure to the source that produced it.
type SourceError struct {
	Key  string
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source %s (%s): %v", e.Key, e.Path, e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.Key, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// LoadError is returned when the dataset cannot be built. It wraps the first
// hard failure.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "dataset load failed: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFoundf builds an error matching ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ValidateHeaders checks that every required field is mapped to a header
// that exists and returns the header index.
func ValidateHeaders(headers []string, columns map[string]string, required []string) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, field := range required {
		name, ok := columns[field]
		if !ok {
			name = field
		}
		if _, ok := idx[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, ValidationError{
			Message: "missing required columns: " + strings.Join(missing, ", "),
		}
	}

	return idx, nil
}
