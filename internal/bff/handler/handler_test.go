package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"talentgate/internal/audit"
	"talentgate/internal/bff/handler"
	"talentgate/internal/session"
	"talentgate/internal/upstream"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

type fakeAPI struct {
	profile       *upstream.CandidateProfile
	stats         *upstream.DashboardStats
	applications  []upstream.Application
	notifications []upstream.Notification
	err           error

	bulkAction upstream.NotificationAction
	bulkIDs    []string
}

func (f *fakeAPI) GetProfile(context.Context) (*upstream.CandidateProfile, error) {
	return f.profile, f.err
}

func (f *fakeAPI) GetDashboardStats(context.Context) (*upstream.DashboardStats, error) {
	return f.stats, f.err
}

func (f *fakeAPI) ListApplications(context.Context, upstream.ApplicationStatus) ([]upstream.Application, error) {
	return f.applications, f.err
}

func (f *fakeAPI) ListNotifications(context.Context, bool) ([]upstream.Notification, error) {
	return f.notifications, f.err
}

func (f *fakeAPI) BulkNotificationAction(_ context.Context, action upstream.NotificationAction, ids []string) error {
	f.bulkAction = action
	f.bulkIDs = ids
	return f.err
}

type fakeSessions struct {
	sessions []*session.Session
	err      error

	revokedID string
}

func (f *fakeSessions) ListByUser(context.Context, string) ([]*session.Session, error) {
	return f.sessions, f.err
}

func (f *fakeSessions) Revoke(_ context.Context, id string, _ time.Time) error {
	f.revokedID = id
	return f.err
}

type HandlerSuite struct {
	suite.Suite

	api      *fakeAPI
	sessions *fakeSessions
	trail    *fakeTrail
	router   chi.Router
}

type fakeTrail struct{ events []audit.Event }

func (f *fakeTrail) Record(event audit.Event) { f.events = append(f.events, event) }

func (s *HandlerSuite) SetupTest() {
	s.api = &fakeAPI{
		profile:       &upstream.CandidateProfile{ID: "cand-1", FullName: "Jo Smith"},
		stats:         &upstream.DashboardStats{ActiveApplications: 2},
		applications:  []upstream.Application{{ID: "app-1", Status: upstream.StatusApplied}},
		notifications: []upstream.Notification{{ID: "note-1", Title: "Interview scheduled"}},
	}
	s.sessions = &fakeSessions{}
	s.trail = &fakeTrail{}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.router = chi.NewRouter()
	handler.New(s.api, s.sessions, s.trail, logger).Register(s.router)
}

func (s *HandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	ctx := requestcontext.WithIdentity(req.Context(), "user-1", domain.RoleCandidate, "")
	ctx = requestcontext.WithSessionID(ctx, "sess-current")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func (s *HandlerSuite) TestDashboardAggregatesAllSources() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/bff/candidate/dashboard", nil))

	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Profile       upstream.CandidateProfile `json:"profile"`
		Stats         upstream.DashboardStats   `json:"stats"`
		Applications  []upstream.Application    `json:"applications"`
		Notifications []upstream.Notification   `json:"notifications"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Jo Smith", resp.Profile.FullName)
	s.Equal(2, resp.Stats.ActiveApplications)
	s.Len(resp.Applications, 1)
	s.Len(resp.Notifications, 1)
}

func (s *HandlerSuite) TestDashboardFailsWhenAnySourceFails() {
	s.api.err = &upstream.APIError{Status: http.StatusServiceUnavailable, Message: "maintenance"}

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/bff/candidate/dashboard", nil))

	s.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), "maintenance")
}

func (s *HandlerSuite) TestDashboardTransportFailureIsBadGateway() {
	s.api.err = errors.New("connection refused")

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/bff/candidate/dashboard", nil))

	s.Require().Equal(http.StatusBadGateway, rec.Code)
	s.Contains(rec.Body.String(), "upstream_unavailable")
}

func (s *HandlerSuite) TestListNotifications() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/bff/candidate/notifications", nil))

	s.Require().Equal(http.StatusOK, rec.Code)

	var notes []upstream.Notification
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &notes))
	s.Require().Len(notes, 1)
	s.Equal("Interview scheduled", notes[0].Title)
}

func (s *HandlerSuite) TestBulkNotifications() {
	s.Run("applies the action", func() {
		body := `{"action":"read","ids":["note-1","note-2"]}`
		req := httptest.NewRequest(http.MethodPost, "/bff/candidate/notifications/bulk", strings.NewReader(body))
		rec := s.serve(req)

		s.Require().Equal(http.StatusNoContent, rec.Code)
		s.Equal(upstream.NotificationMarkRead, s.api.bulkAction)
		s.Equal([]string{"note-1", "note-2"}, s.api.bulkIDs)
	})

	s.Run("rejects unknown actions", func() {
		body := `{"action":"explode","ids":["note-1"]}`
		req := httptest.NewRequest(http.MethodPost, "/bff/candidate/notifications/bulk", strings.NewReader(body))
		rec := s.serve(req)

		s.Require().Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects empty id lists", func() {
		body := `{"action":"read","ids":[]}`
		req := httptest.NewRequest(http.MethodPost, "/bff/candidate/notifications/bulk", strings.NewReader(body))
		rec := s.serve(req)

		s.Require().Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestListSessionsMarksCurrent() {
	now := time.Now()
	s.sessions.sessions = []*session.Session{
		{ID: "sess-current", UserID: "user-1", Device: "Chrome on Windows 10", CreatedAt: now, LastSeenAt: now},
		{ID: "sess-other", UserID: "user-1", Device: "Safari on macOS", CreatedAt: now.Add(-time.Hour), LastSeenAt: now.Add(-time.Minute)},
	}

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/bff/settings/sessions", nil))

	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Sessions []session.Summary `json:"sessions"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Sessions, 2)
	s.True(resp.Sessions[0].IsCurrent)
	s.False(resp.Sessions[1].IsCurrent)
	s.Equal("Safari on macOS", resp.Sessions[1].Device)
}

func (s *HandlerSuite) TestRevokeSession() {
	now := time.Now()
	s.sessions.sessions = []*session.Session{
		{ID: "sess-current", UserID: "user-1", CreatedAt: now, LastSeenAt: now},
		{ID: "sess-other", UserID: "user-1", CreatedAt: now, LastSeenAt: now},
	}

	s.Run("revokes an owned session", func() {
		rec := s.serve(httptest.NewRequest(http.MethodDelete, "/bff/settings/sessions/sess-other", nil))

		s.Require().Equal(http.StatusNoContent, rec.Code)
		s.Equal("sess-other", s.sessions.revokedID)

		s.Require().Len(s.trail.events, 1)
		s.Equal(audit.ActionSessionRevoked, s.trail.events[0].Action)
		s.Equal("user-1", s.trail.events[0].UserID)
	})

	s.Run("unknown session is not found", func() {
		rec := s.serve(httptest.NewRequest(http.MethodDelete, "/bff/settings/sessions/sess-stranger", nil))

		s.Require().Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestListSessionsWithoutIdentity() {
	req := httptest.NewRequest(http.MethodGet, "/bff/settings/sessions", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
