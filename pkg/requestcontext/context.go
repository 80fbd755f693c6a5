// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services and clients. By keeping this
// package free of net/http dependencies, callers can import only what they need
// without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	userID := requestcontext.UserID(ctx)
//	role := requestcontext.Role(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithIdentity(ctx, userID, role, companyID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"talentgate/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	userIDKey         struct{}
	roleKey           struct{}
	companyIDKey      struct{}
	sessionIDKey      struct{}
	candidateEmailKey struct{}
	clientIPKey       struct{}
	userAgentKey      struct{}
	requestIDKey      struct{}
	requestTimeKey    struct{}
)

// -----------------------------------------------------------------------------
// Identity context (user, role, company)
// -----------------------------------------------------------------------------

// UserID retrieves the authenticated user ID from the context.
func UserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey{}).(string); ok {
		return userID
	}
	return ""
}

// Role retrieves the authenticated role from the context.
// Returns the empty role if no identity has been resolved.
func Role(ctx context.Context) domain.Role {
	if role, ok := ctx.Value(roleKey{}).(domain.Role); ok {
		return role
	}
	return ""
}

// CompanyID retrieves the company the principal belongs to, if any.
func CompanyID(ctx context.Context) string {
	if companyID, ok := ctx.Value(companyIDKey{}).(string); ok {
		return companyID
	}
	return ""
}

// WithIdentity injects the resolved principal into the context.
func WithIdentity(ctx context.Context, userID string, role domain.Role, companyID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	ctx = context.WithValue(ctx, roleKey{}, role)
	if companyID != "" {
		ctx = context.WithValue(ctx, companyIDKey{}, companyID)
	}
	return ctx
}

// SessionID retrieves the session ID from the context.
func SessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return sessionID
	}
	return ""
}

// WithSessionID injects a session ID into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// CandidateEmail retrieves the interview-gate candidate email from the context.
// Set only on candidate interview routes where the email query parameter passed
// validation.
func CandidateEmail(ctx context.Context) string {
	if email, ok := ctx.Value(candidateEmailKey{}).(string); ok {
		return email
	}
	return ""
}

// WithCandidateEmail injects the validated candidate email into the context.
func WithCandidateEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, candidateEmailKey{}, email)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for unit tests that don't run the full HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	ctx = context.WithValue(ctx, userAgentKey{}, userAgent)
	return ctx
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
