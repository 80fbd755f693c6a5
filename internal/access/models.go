// Package access is the gateway's route authorization layer. Every inbound
// request is classified into one of a fixed set of route classes and evaluated
// against the role redirect table. The decision engine is a pure function;
// the middleware in this package does the HTTP plumbing around it.
package access

import (
	"context"
	"net/url"

	"talentgate/internal/session"
	"talentgate/internal/session/token"
)

// RouteClass is the gate a request falls under. Classification runs in fixed
// priority order: passthrough, public, candidate interview, candidate
// dashboard, and finally the sessioned role gate.
type RouteClass string

const (
	ClassPassthrough        RouteClass = "passthrough"
	ClassPublic             RouteClass = "public"
	ClassCandidateInterview RouteClass = "candidate_interview"
	ClassCandidateDashboard RouteClass = "candidate_dashboard"
	ClassRoleGate           RouteClass = "role_gate"
)

// Action is the terminal outcome of an evaluation. A disallowed request is
// always redirected somewhere sensible, never answered with an error status.
type Action string

const (
	ActionNext     Action = "next"
	ActionRedirect Action = "redirect"
)

// Reason explains a decision for metrics, logs, and the audit trail.
type Reason string

const (
	ReasonPassthrough     Reason = "passthrough"
	ReasonPublicRoute     Reason = "public_route"
	ReasonAllowed         Reason = "allowed"
	ReasonMissingCookie   Reason = "missing_session_cookie"
	ReasonInvalidToken    Reason = "invalid_session_token"
	ReasonMissingMarker   Reason = "missing_interview_marker"
	ReasonInvalidEmail    Reason = "invalid_candidate_email"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonRoleMismatch    Reason = "role_mismatch"
	ReasonSuperAdminScope Reason = "super_admin_scope"
)

// Headers injected for downstream handlers on allowed requests.
const (
	HeaderUserID                 = "x-user-id"
	HeaderUserRole               = "x-user-role"
	HeaderCompanyID              = "x-company-id"
	HeaderSuperAdmin             = "x-super-admin"
	HeaderCandidateEmail         = "x-candidate-email"
	HeaderCandidateAuthenticated = "x-candidate-authenticated"
	HeaderDashboardAccess        = "x-dashboard-access"
)

// Input is everything Evaluate may consult. The middleware fills only the
// fields the request's route class needs, so public routes never trigger a
// session lookup.
type Input struct {
	Path  string
	Query url.Values

	// HasCandidateCookie reports cookie presence; the candidate dashboard
	// gate checks presence only, by design.
	HasCandidateCookie bool

	// CandidateClaims is the validated candidate token, nil when the cookie
	// is absent or fails validation. Required by the interview gate; the
	// dashboard gate uses it only to name the caller downstream.
	CandidateClaims *token.Claims

	// Session is the fully resolved session for the role gate, nil when
	// unauthenticated.
	Session *session.Session
}

// Decision is the evaluation outcome: continue with injected headers, or
// redirect to Location.
type Decision struct {
	Action   Action
	Class    RouteClass
	Reason   Reason
	Location string
	Headers  map[string]string
}

// forwardHeadersKey carries the decision's header set to the proxy.
type forwardHeadersKey struct{}

// WithForwardHeaders stores the decision's downstream header set in the context.
func WithForwardHeaders(ctx context.Context, headers map[string]string) context.Context {
	return context.WithValue(ctx, forwardHeadersKey{}, headers)
}

// ForwardHeaders returns the header set the gate decided to inject, if any.
func ForwardHeaders(ctx context.Context) map[string]string {
	if h, ok := ctx.Value(forwardHeadersKey{}).(map[string]string); ok {
		return h
	}
	return nil
}
