package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a DomainError so transports can map it without string matching.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInvalidState Kind = "INVALID_STATE"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindPersistence  Kind = "PERSISTENCE_ERROR"
)

// Sentinels usable with errors.Is to test only the kind of an error.
var (
	ErrValidation   = &DomainError{Kind: KindValidation}
	ErrNotFound     = &DomainError{Kind: KindNotFound}
	ErrConflict     = &DomainError{Kind: KindConflict}
	ErrInvalidState = &DomainError{Kind: KindInvalidState}
	ErrUnauthorized = &DomainError{Kind: KindUnauthorized}
	ErrForbidden    = &DomainError{Kind: KindForbidden}
	ErrPersistence  = &DomainError{Kind: KindPersistence}
)

// DomainError is the error type returned by every layer of the service.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause.
func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on kind, and on message too when the target carries one.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NewValidationError reports rejected input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewConflictError reports a write that collides with current state.
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// NewInvalidStateError reports an illegal state machine transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("invalid state transition from %s to %s", from, to),
	}
}

// NewUnauthorizedError reports a request without a valid identity.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Message: message}
}

// NewForbiddenError reports an identity that lacks the role or ownership required.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// NewPersistenceError wraps a store failure.
func NewPersistenceError(op string, err error) *DomainError {
	return &DomainError{Kind: KindPersistence, Message: op, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsPersistence(err error) bool  { return KindOf(err) == KindPersistence }
