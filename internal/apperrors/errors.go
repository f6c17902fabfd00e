// File: internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP boundary can map it to a status
// code without inspecting error text.
type Kind string

const (
	KindInvalidInput        Kind = "INVALID_INPUT"
	KindMalformedIdentifier Kind = "MALFORMED_IDENTIFIER"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindNotFound            Kind = "NOT_FOUND"
	KindConflict            Kind = "CONFLICT"
	KindStorage             Kind = "STORAGE"
)

// AppError is the single error type surfaced by every service operation.
// Op names the operation that failed, Message is safe to show to callers
// except for KindStorage, which the boundary replaces with a generic text.
type AppError struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Op, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewInvalidInput(op, msg string) *AppError {
	return &AppError{Kind: KindInvalidInput, Op: op, Message: msg}
}

func NewMalformedIdentifier(op, field string) *AppError {
	return &AppError{Kind: KindMalformedIdentifier, Op: op, Message: "invalid " + field + " format"}
}

func NewUnauthorized(op, msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Op: op, Message: msg}
}

func NewForbidden(op, msg string) *AppError {
	return &AppError{Kind: KindForbidden, Op: op, Message: msg}
}

func NewNotFound(op, msg string) *AppError {
	return &AppError{Kind: KindNotFound, Op: op, Message: msg}
}

func NewConflict(op, msg string) *AppError {
	return &AppError{Kind: KindConflict, Op: op, Message: msg}
}

func NewStorage(op string, cause error) *AppError {
	return &AppError{Kind: KindStorage, Op: op, Message: "storage operation failed", Cause: cause}
}

// KindOf extracts the Kind from any error in the chain. Unclassified
// errors are treated as storage failures.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// IsKind reports whether err carries the given kind. MalformedIdentifier
// is a subtype of InvalidInput for matching purposes.
func IsKind(err error, kind Kind) bool {
	k := KindOf(err)
	if k == kind {
		return true
	}
	return kind == KindInvalidInput && k == KindMalformedIdentifier
}
