// Package audit records access gate decisions: every denial and every
// interview-gate admission. Events are buffered in-process and drained by a
// background worker to the configured sinks (Kafka, Postgres, or the in-memory
// sink when neither is configured).
package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring:
	// denied requests, invalid tokens, role mismatches.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine visibility events:
	// interview-gate admissions and session activity.
	CategoryOperations EventCategory = "operations"
)

// Event actions emitted by the gate.
const (
	ActionAccessDenied     = "access_denied"
	ActionInterviewGranted = "interview_access_granted"
	ActionSessionRevoked   = "session_revoked"
)

// Event is one gate decision worth keeping. Transport-agnostic so sinks can
// fan out.
type Event struct {
	ID        string        `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`

	Action string `json:"action"`
	Path   string `json:"path"`
	Class  string `json:"class"`
	Reason string `json:"reason"`

	// Principal, when one was resolved. Denials frequently have none.
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"email,omitempty"`

	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
}
