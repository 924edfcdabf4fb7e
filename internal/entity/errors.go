package domain

import "fmt"

// ValidationError is raised when input is malformed or missing before any
// upstream call is made. Never retried; rendered as 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError marks an absent referenced entity. Rendered as 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UpstreamError wraps a failure from the commerce platform. Rendered as 502.
// Both cart and checkout creation use this single variant.
type UpstreamError struct {
	Op      string // e.g. "cartCreate"
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewUpstreamError(op string, err error) *UpstreamError {
	msg := "upstream request failed"
	if err != nil {
		msg = err.Error()
	}
	return &UpstreamError{Op: op, Message: msg, Err: err}
}
