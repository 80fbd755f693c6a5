package access_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/internal/access"
	"talentgate/internal/audit"
	"talentgate/internal/session"
	"talentgate/internal/session/token"
	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

// spyResolver counts lookups so tests can prove which route classes touch
// session state.
type spyResolver struct {
	claims  *token.Claims
	session *session.Session

	validateCalls int
	resolveCalls  int
}

func (s *spyResolver) ValidateToken(string) (*token.Claims, error) {
	s.validateCalls++
	if s.claims == nil {
		return nil, sentinel.ErrExpired
	}
	return s.claims, nil
}

func (s *spyResolver) Resolve(context.Context, string, time.Time) (*session.Session, error) {
	s.resolveCalls++
	if s.session == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.session, nil
}

type captureRecorder struct{ events []audit.Event }

func (c *captureRecorder) Record(event audit.Event) { c.events = append(c.events, event) }

func newGate(resolver *spyResolver, trail access.Recorder) http.Handler {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	mw := access.NewMiddleware(resolver, nil, trail, logger)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range access.ForwardHeaders(r.Context()) {
			w.Header().Set("Echo-"+k, v)
		}
		w.Header().Set("Echo-User-Id", requestcontext.UserID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
	return mw.Gate(inner)
}

func activeSession(role domain.Role) *session.Session {
	now := time.Now()
	return &session.Session{
		ID:         "sess-1",
		UserID:     "user-1",
		Role:       role,
		CompanyID:  "company-7",
		Email:      "lead@acme.test",
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
		LastSeenAt: now,
	}
}

func TestGateUnauthenticatedRoleGateRedirects(t *testing.T) {
	resolver := &spyResolver{}
	gate := newGate(resolver, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/candidates", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fdashboard%2Fcandidates", rec.Header().Get("Location"))
	assert.Equal(t, 0, resolver.resolveCalls, "no cookie means no store lookup")
}

func TestGatePublicRoutesSkipSessionState(t *testing.T) {
	resolver := &spyResolver{session: activeSession(domain.RoleCompany)}
	gate := newGate(resolver, nil)

	for _, path := range []string{"/", "/about", "/auth/signin", "/candidate/signin", "/api/jobs", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: session.MainCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, 0, resolver.validateCalls)
	assert.Equal(t, 0, resolver.resolveCalls)
}

func TestGateInjectsIdentityHeaders(t *testing.T) {
	resolver := &spyResolver{session: activeSession(domain.RoleCompany)}
	gate := newGate(resolver, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/candidates", nil)
	req.AddCookie(&http.Cookie{Name: session.MainCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Header().Get("Echo-"+access.HeaderUserID))
	assert.Equal(t, "company", rec.Header().Get("Echo-"+access.HeaderUserRole))
	assert.Equal(t, "company-7", rec.Header().Get("Echo-"+access.HeaderCompanyID))
	assert.Equal(t, "user-1", rec.Header().Get("Echo-User-Id"), "identity lands in the request context")
	assert.Equal(t, 1, resolver.resolveCalls)
}

func TestGateCandidateRedirectsHomeFromDashboard(t *testing.T) {
	resolver := &spyResolver{session: activeSession(domain.RoleCandidate)}
	trail := &captureRecorder{}
	gate := newGate(resolver, trail)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.SecureMainCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/candidate", rec.Header().Get("Location"))

	require.Len(t, trail.events, 1)
	assert.Equal(t, audit.ActionAccessDenied, trail.events[0].Action)
	assert.Equal(t, "user-1", trail.events[0].UserID)
}

func TestGateInterviewFlow(t *testing.T) {
	claims := &token.Claims{UserID: "cand-1", Role: string(domain.RoleCandidate), Email: "jo@mail.test", SessionID: "sess-c"}

	t.Run("missing cookie skips token validation", func(t *testing.T) {
		resolver := &spyResolver{claims: claims}
		gate := newGate(resolver, nil)

		req := httptest.NewRequest(http.MethodGet, "/candidate/interview/42?authenticated=true&email=a%40b.co", nil)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/candidate/signin", rec.Header().Get("Location"))
		assert.Equal(t, 0, resolver.validateCalls)
	})

	t.Run("granted access records an audit event and forwards the email", func(t *testing.T) {
		resolver := &spyResolver{claims: claims}
		trail := &captureRecorder{}
		gate := newGate(resolver, trail)

		req := httptest.NewRequest(http.MethodGet, "/candidate/interview/42?authenticated=true&email=a%40b.co", nil)
		req.AddCookie(&http.Cookie{Name: session.CandidateCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@b.co", rec.Header().Get("Echo-"+access.HeaderCandidateEmail))
		assert.Equal(t, "true", rec.Header().Get("Echo-"+access.HeaderCandidateAuthenticated))

		require.Len(t, trail.events, 1)
		assert.Equal(t, audit.ActionInterviewGranted, trail.events[0].Action)
		assert.Equal(t, "a@b.co", trail.events[0].Email)
	})

	t.Run("expired token redirects to sign-in", func(t *testing.T) {
		resolver := &spyResolver{} // ValidateToken fails
		gate := newGate(resolver, nil)

		req := httptest.NewRequest(http.MethodGet, "/candidate/interview/42?authenticated=true&email=a%40b.co", nil)
		req.AddCookie(&http.Cookie{Name: session.CandidateCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/candidate/signin", rec.Header().Get("Location"))
		assert.Equal(t, 1, resolver.validateCalls)
	})
}

func TestGateCandidateDashboard(t *testing.T) {
	t.Run("cookie presence admits even with an unreadable token", func(t *testing.T) {
		resolver := &spyResolver{} // ValidateToken fails
		trail := &captureRecorder{}
		gate := newGate(resolver, trail)

		req := httptest.NewRequest(http.MethodGet, "/candidate/documents", nil)
		req.AddCookie(&http.Cookie{Name: session.CandidateCookieName, Value: "whatever"})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("Echo-"+access.HeaderDashboardAccess))
		assert.Empty(t, rec.Header().Get("Echo-"+access.HeaderUserID))
		assert.Equal(t, 0, resolver.resolveCalls, "no store lookup for this class")
		assert.Empty(t, trail.events, "dashboard grants are not audited")
	})

	t.Run("valid token threads the caller's identity downstream", func(t *testing.T) {
		claims := &token.Claims{UserID: "cand-1", Role: string(domain.RoleCandidate), Email: "jo@mail.test", SessionID: "sess-c"}
		resolver := &spyResolver{claims: claims}
		gate := newGate(resolver, nil)

		req := httptest.NewRequest(http.MethodGet, "/bff/candidate/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: session.CandidateCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cand-1", rec.Header().Get("Echo-"+access.HeaderUserID))
		assert.Equal(t, "candidate", rec.Header().Get("Echo-"+access.HeaderUserRole))
		assert.Equal(t, "jo@mail.test", rec.Header().Get("Echo-"+access.HeaderCandidateEmail))
		assert.Equal(t, "cand-1", rec.Header().Get("Echo-User-Id"), "identity lands in the request context")
		assert.Equal(t, 1, resolver.validateCalls)
		assert.Equal(t, 0, resolver.resolveCalls)
	})

	t.Run("non-candidate token yields access but no identity", func(t *testing.T) {
		claims := &token.Claims{UserID: "user-9", Role: string(domain.RoleCompany), SessionID: "sess-m"}
		resolver := &spyResolver{claims: claims}
		gate := newGate(resolver, nil)

		req := httptest.NewRequest(http.MethodGet, "/candidate/documents", nil)
		req.AddCookie(&http.Cookie{Name: session.CandidateCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Echo-"+access.HeaderUserID))
	})
}
