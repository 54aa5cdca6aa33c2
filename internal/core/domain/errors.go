package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds returned by source adapters.
var (
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
)

// SourceError ties an adapter failure to the source that produced it.
// errors.Is matches both the kind sentinel and the wrapped cause.
type SourceError struct {
	Source Source
	Kind   error
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewNetworkError(source Source, err error) error {
	return &SourceError{Source: source, Kind: ErrNetwork, Err: err}
}

func NewMalformedResponseError(source Source, err error) error {
	return &SourceError{Source: source, Kind: ErrMalformedResponse, Err: err}
}

func NewNotFoundError(source Source, id string) error {
	return &SourceError{Source: source, Kind: ErrNotFound, Err: fmt.Errorf("property %q", id)}
}

// ErrorKind names the kind of err for logs and metrics labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
