// Package audit captures key workflow actions for compliance review.
//
// Events are transport-agnostic: services hand them to a Publisher and carry
// on. Delivery is fire-and-forget from the core's perspective — a failed
// audit write never rolls back a state transition that already succeeded.
package audit

import (
	"context"
	"time"

	id "covera/pkg/domain"
)

// Event is emitted from domain logic when an application changes state or an
// underwriting decision is produced.
type Event struct {
	Timestamp     time.Time
	Action        Action
	UserID        id.UserID
	ApplicationID id.ApplicationID
	// Decision and Reason are set for review transitions.
	Decision string
	Reason   string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// ClientIP and UserAgent describe the submitting client.
	ClientIP  string
	UserAgent string
}

// Action names one auditable workflow event.
type Action string

const (
	ActionApplicationCreated   Action = "application_created"
	ActionApplicationSubmitted Action = "application_submitted"
	ActionDecisionProduced     Action = "underwriting_decision_produced"
	ActionReviewStarted        Action = "review_started"
	ActionApplicationApproved  Action = "application_approved"
	ActionApplicationRejected  Action = "application_rejected"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher emits audit events for asynchronous delivery.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
