// Package domainerrors provides coded errors for the application core.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel);
// services translate those into coded domain errors which the HTTP layer maps
// to status codes. Validation and invariant errors carry the full ordered
// violation list so a caller can surface every problem at once instead of
// fixing them one round-trip at a time.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and branching.
type Code string

const (
	// CodeBadRequest marks malformed input (unparseable IDs, bad JSON).
	CodeBadRequest Code = "bad_request"
	// CodeValidation marks single-step field violations. Recoverable: the
	// applicant corrects the step data and resaves.
	CodeValidation Code = "validation_failed"
	// CodeInvariant marks cross-step rule failures raised at submission.
	CodeInvariant Code = "invariant_violation"
	// CodeEligibility marks age-vs-plan or coverage-vs-plan mismatches from
	// the rating engine. Recoverable by choosing a different plan.
	CodeEligibility Code = "not_eligible"
	// CodeNotFound marks unknown application/plan/product IDs.
	CodeNotFound Code = "not_found"
	// CodeConflict marks writes against an aggregate in the wrong state or
	// with a stale version token.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks missing or invalid authentication.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks access to another user's application.
	CodeForbidden Code = "forbidden"
	// CodeRateLimited marks throttled submission attempts.
	CodeRateLimited Code = "rate_limited"
	// CodeInternal marks unexpected failures; details stay server-side.
	CodeInternal Code = "internal_error"
)

// Violation is one human-readable rule failure. Field is empty for
// cross-step invariants that span the whole aggregate.
type Violation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// DomainError is the concrete error type carried across layers.
type DomainError struct {
	Code       Code
	Message    string
	Violations []Violation
	wrapped    error
}

func (e *DomainError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.wrapped }

// New creates a coded domain error.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, wrapped: err}
}

// NewWithViolations creates a coded error carrying the full violation list.
// The list order is preserved: callers report violations in rule order.
func NewWithViolations(code Code, message string, violations []Violation) error {
	return &DomainError{Code: code, Message: message, Violations: violations}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode at call sites that branch on codes.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ViolationsOf returns the violation list carried by err, if any.
func ViolationsOf(err error) []Violation {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Violations
	}
	return nil
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeInvariant, CodeEligibility:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
