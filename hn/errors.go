package hn

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch operations.
var (
	// ErrCanceled is returned when the caller's context ends before the
	// result arrives. The context error is wrapped alongside it.
	ErrCanceled = errors.New("hn: request canceled")

	// ErrItemNotFound is returned when the API answers null for an id.
	ErrItemNotFound = errors.New("hn: item not found")

	// ErrUnknownList is returned when a story list name is not recognized.
	ErrUnknownList = errors.New("hn: unknown story list")

	// ErrInvalidConfig is returned when a NetworkConfig fails validation.
	ErrInvalidConfig = errors.New("hn: invalid network config")
)

// FetchError describes a GET that failed after one or more attempts.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("hn: GET %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response. It is never retried.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hn: unexpected status %d from %s", e.StatusCode, e.URL)
}

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hn: failed to parse JSON response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func canceled(err error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
