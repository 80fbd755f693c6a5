package access

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"talentgate/internal/access/metrics"
	"talentgate/internal/audit"
	"talentgate/internal/session"
	"talentgate/internal/session/token"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

// SessionResolver is the slice of the session layer the gate needs.
type SessionResolver interface {
	ValidateToken(raw string) (*token.Claims, error)
	Resolve(ctx context.Context, raw string, now time.Time) (*session.Session, error)
}

// Recorder receives gate decisions worth auditing.
type Recorder interface {
	Record(event audit.Event)
}

// Middleware enforces the route access policy on every request before the
// proxy or a BFF handler runs. It is a pure function of (request, resolved
// session); no state is shared across requests.
type Middleware struct {
	resolver SessionResolver
	metrics  *metrics.Metrics
	trail    Recorder
	logger   *slog.Logger
}

func NewMiddleware(resolver SessionResolver, m *metrics.Metrics, trail Recorder, logger *slog.Logger) *Middleware {
	return &Middleware{
		resolver: resolver,
		metrics:  m,
		trail:    trail,
		logger:   logger,
	}
}

// Gate classifies the request, gathers exactly the session state its route
// class needs, and acts on the policy decision: next() with injected headers
// or a 307 redirect. Disallowed requests are never answered with an error
// status.
func (m *Middleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		now := requestcontext.Now(ctx)

		in := Input{Path: r.URL.Path, Query: r.URL.Query()}

		switch Classify(r.URL.Path) {
		case ClassCandidateInterview:
			raw, ok := session.CandidateTokenFromRequest(r)
			in.HasCandidateCookie = ok
			if ok {
				claims, err := m.resolver.ValidateToken(raw)
				if err != nil {
					m.logger.DebugContext(ctx, "interview gate token rejected",
						"path", r.URL.Path,
						"error", err,
					)
				} else if domain.Role(claims.Role) == domain.RoleCandidate {
					in.CandidateClaims = claims
				}
			}

		case ClassCandidateDashboard:
			raw, ok := session.CandidateTokenFromRequest(r)
			in.HasCandidateCookie = ok
			if ok {
				// Presence admits; a valid token additionally yields the
				// identity forwarded to BFF and upstream calls.
				claims, err := m.resolver.ValidateToken(raw)
				if err != nil {
					m.logger.DebugContext(ctx, "dashboard gate token unreadable",
						"path", r.URL.Path,
						"error", err,
					)
				} else if domain.Role(claims.Role) == domain.RoleCandidate {
					in.CandidateClaims = claims
				}
			} else {
				in.Session = m.resolveMainSession(r, now)
			}

		case ClassRoleGate:
			in.Session = m.resolveMainSession(r, now)
		}

		decision := Evaluate(in)

		m.metrics.IncrementDecision(string(decision.Class), string(decision.Action), string(decision.Reason))
		m.metrics.ObserveGateLatency(time.Since(start))

		if decision.Action == ActionRedirect {
			m.record(r, in, decision)
			m.logger.InfoContext(ctx, "request redirected by access gate",
				"path", r.URL.Path,
				"class", decision.Class,
				"reason", decision.Reason,
				"location", decision.Location,
				"request_id", requestcontext.RequestID(ctx),
			)
			http.Redirect(w, r, decision.Location, http.StatusTemporaryRedirect)
			return
		}

		if len(decision.Headers) > 0 {
			ctx = WithForwardHeaders(ctx, decision.Headers)
		}
		if in.Session != nil {
			ctx = requestcontext.WithIdentity(ctx, in.Session.UserID, in.Session.Role, in.Session.CompanyID)
			ctx = requestcontext.WithSessionID(ctx, in.Session.ID)
		} else if claims := in.CandidateClaims; claims != nil {
			ctx = requestcontext.WithIdentity(ctx, claims.UserID, domain.Role(claims.Role), claims.CompanyID)
			ctx = requestcontext.WithSessionID(ctx, claims.SessionID)
		}
		if email, ok := decision.Headers[HeaderCandidateEmail]; ok {
			ctx = requestcontext.WithCandidateEmail(ctx, email)
			if decision.Class == ClassCandidateInterview {
				m.record(r, in, decision)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveMainSession resolves the company/admin session, returning nil for
// every failure mode: the role gate treats them all as unauthenticated.
func (m *Middleware) resolveMainSession(r *http.Request, now time.Time) *session.Session {
	raw, ok := session.MainTokenFromRequest(r)
	if !ok {
		return nil
	}

	ctx := r.Context()
	start := time.Now()
	sess, err := m.resolver.Resolve(ctx, raw, now)
	m.metrics.ObserveResolveLatency(time.Since(start))
	if err != nil {
		m.logger.DebugContext(ctx, "session resolution failed",
			"path", r.URL.Path,
			"error", err,
		)
		return nil
	}
	return sess
}

// record emits an audit event for a denial or an interview-gate admission.
func (m *Middleware) record(r *http.Request, in Input, decision Decision) {
	if m.trail == nil {
		return
	}

	ctx := r.Context()
	event := audit.Event{
		Category:  audit.CategorySecurity,
		Action:    audit.ActionAccessDenied,
		Path:      r.URL.Path,
		Class:     string(decision.Class),
		Reason:    string(decision.Reason),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}
	if decision.Action == ActionNext {
		event.Category = audit.CategoryOperations
		event.Action = audit.ActionInterviewGranted
		event.Email = in.Query.Get("email")
	}
	if in.Session != nil {
		event.UserID = in.Session.UserID
		event.Role = string(in.Session.Role)
		event.Email = in.Session.Email
	} else if in.CandidateClaims != nil {
		event.UserID = in.CandidateClaims.UserID
		event.Role = in.CandidateClaims.Role
	}

	m.trail.Record(event)
}
