package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated means no valid streaming-service session was supplied.
	ErrUnauthenticated = errors.New("no authenticated music service session")

	// ErrRateLimited means the streaming service rejected a call with a rate limit.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrUpstream marks any other streaming-service failure.
	ErrUpstream = errors.New("upstream failure")

	// ErrEmptyResult means no source produced anything usable.
	ErrEmptyResult = errors.New("no recommendations could be produced")
)

// ValidationError describes invalid caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RateLimitedError carries the retry hint sent by the streaming service.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter <= 0 {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("%s, retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// UpstreamError is a failed streaming-service call.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// EmptyResultError is returned when every source failed or produced nothing.
// It is a validation-class error.
type EmptyResultError struct {
	Reason string
}

func (e *EmptyResultError) Error() string {
	if e.Reason == "" {
		return ErrEmptyResult.Error()
	}
	return fmt.Sprintf("%s: %s", ErrEmptyResult, e.Reason)
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult || target == ErrValidation
}

// RetryAfter extracts the retry hint from a rate-limit error chain.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
