package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for order-fulfillment failure categories.
// These surface verbatim to clients and are never auto-corrected or retried
// by the core; ErrConcurrencyConflict is retryable by the caller after a
// fresh read.
var (
	// ErrInvalidTransition indicates that the requested status is not a direct
	// successor of the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrComplianceBlocked indicates that a regulatory compliance rule blocked
	// the requested status transition.
	ErrComplianceBlocked = errors.New("compliance blocked")

	// ErrConcurrencyConflict indicates that a concurrent writer committed first.
	// The caller must re-read the order and retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrExternalServiceTimeout indicates that an external service call timed out.
	// The outcome of the call is unknown and must be reconciled, never assumed.
	ErrExternalServiceTimeout = errors.New("external service timeout")
)

// InvalidTransitionError is returned when a transition request names a target
// status that is not reachable from the order's current status.
type InvalidTransitionError struct {
	From string
	To   string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given edge.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ComplianceReason identifies which compliance rule blocked a transition.
type ComplianceReason string

// Compliance block reason codes, surfaced verbatim to clients.
const (
	ReasonQuantityExceeded   ComplianceReason = "quantity_exceeded"
	ReasonIdentityUnverified ComplianceReason = "identity_unverified"
	ReasonWrongOrderType     ComplianceReason = "wrong_order_type"
)

// ComplianceBlockedError is returned when a compliance rule blocks a status
// transition. Reason carries the rule's reason code.
type ComplianceBlockedError struct {
	Reason ComplianceReason
}

// NewComplianceBlockedError creates a ComplianceBlockedError with the given reason code.
func NewComplianceBlockedError(reason ComplianceReason) *ComplianceBlockedError {
	return &ComplianceBlockedError{Reason: reason}
}

func (e *ComplianceBlockedError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s", ErrComplianceBlocked, e.Reason))
}

func (e *ComplianceBlockedError) Unwrap() error {
	return ErrComplianceBlocked
}

// ConcurrencyConflictError is returned when an optimistic concurrency check
// fails because another writer committed a newer version of the aggregate.
type ConcurrencyConflictError struct {
	ParamName string
	ID        any
}

// NewConcurrencyConflictError creates a ConcurrencyConflictError for the given aggregate.
func NewConcurrencyConflictError(paramName string, id any) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{ParamName: paramName, ID: id}
}

func (e *ConcurrencyConflictError) Error() string {
	return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s", ErrConcurrencyConflict, e.ParamName, e.ID))
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// ExternalServiceTimeoutError is returned when a call to an external service
// exceeds its bounded timeout. It represents an unknown outcome, not a failure.
type ExternalServiceTimeoutError struct {
	Service string
	Cause   error
}

// NewExternalServiceTimeoutError creates an ExternalServiceTimeoutError without an underlying cause.
func NewExternalServiceTimeoutError(service string) *ExternalServiceTimeoutError {
	return &ExternalServiceTimeoutError{Service: service}
}

// NewExternalServiceTimeoutErrorWithCause creates an ExternalServiceTimeoutError wrapping an underlying cause.
func NewExternalServiceTimeoutErrorWithCause(service string, cause error) *ExternalServiceTimeoutError {
	return &ExternalServiceTimeoutError{Service: service, Cause: cause}
}

func (e *ExternalServiceTimeoutError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrExternalServiceTimeout, e.Service, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrExternalServiceTimeout, e.Service))
}

func (e *ExternalServiceTimeoutError) Unwrap() error {
	return ErrExternalServiceTimeout
}
