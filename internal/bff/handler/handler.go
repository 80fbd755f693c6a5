// Package handler serves the gateway's BFF endpoints: aggregates over the
// upstream API that save page components a waterfall of fetches, plus the
// active sessions listing for the settings page.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"talentgate/internal/audit"
	"talentgate/internal/session"
	"talentgate/internal/upstream"
	platformhttp "talentgate/pkg/platform/httputil"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

// UpstreamAPI is the slice of the upstream client the BFF consumes.
type UpstreamAPI interface {
	GetProfile(ctx context.Context) (*upstream.CandidateProfile, error)
	GetDashboardStats(ctx context.Context) (*upstream.DashboardStats, error)
	ListApplications(ctx context.Context, status upstream.ApplicationStatus) ([]upstream.Application, error)
	ListNotifications(ctx context.Context, includeArchived bool) ([]upstream.Notification, error)
	BulkNotificationAction(ctx context.Context, action upstream.NotificationAction, ids []string) error
}

// SessionStore is the slice of the session store the settings page needs:
// listing a user's live sessions and signing out one of them.
type SessionStore interface {
	ListByUser(ctx context.Context, userID string) ([]*session.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

// Recorder receives session lifecycle events for the audit trail.
type Recorder interface {
	Record(event audit.Event)
}

// Handler serves the /bff routes. It always runs behind the access gate, so
// the request context carries a resolved identity.
type Handler struct {
	logger   *slog.Logger
	api      UpstreamAPI
	sessions SessionStore
	trail    Recorder
}

func New(api UpstreamAPI, sessions SessionStore, trail Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		api:      api,
		sessions: sessions,
		trail:    trail,
	}
}

// Register mounts the BFF routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/bff/candidate/dashboard", h.handleCandidateDashboard)
	r.Get("/bff/candidate/notifications", h.handleListNotifications)
	r.Post("/bff/candidate/notifications/bulk", h.handleBulkNotifications)
	r.Get("/bff/settings/sessions", h.handleListSessions)
	r.Delete("/bff/settings/sessions/{sessionID}", h.handleRevokeSession)
}

// dashboardResponse is the aggregate the candidate dashboard renders from.
type dashboardResponse struct {
	Profile       *upstream.CandidateProfile `json:"profile"`
	Stats         *upstream.DashboardStats   `json:"stats"`
	Applications  []upstream.Application     `json:"applications"`
	Notifications []upstream.Notification    `json:"notifications"`
}

// handleCandidateDashboard fetches the dashboard's four data sources in
// parallel and returns one payload. Any single upstream failure fails the
// aggregate; partial dashboards confuse more than they help.
func (h *Handler) handleCandidateDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp dashboardResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := h.api.GetProfile(gctx)
		resp.Profile = profile
		return err
	})
	g.Go(func() error {
		stats, err := h.api.GetDashboardStats(gctx)
		resp.Stats = stats
		return err
	})
	g.Go(func() error {
		apps, err := h.api.ListApplications(gctx, "")
		resp.Applications = apps
		return err
	})
	g.Go(func() error {
		notes, err := h.api.ListNotifications(gctx, false)
		resp.Notifications = notes
		return err
	})

	if err := g.Wait(); err != nil {
		h.writeUpstreamError(w, r, "dashboard aggregate failed", err)
		return
	}

	platformhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"

	notes, err := h.api.ListNotifications(r.Context(), includeArchived)
	if err != nil {
		h.writeUpstreamError(w, r, "notification listing failed", err)
		return
	}

	platformhttp.WriteJSON(w, http.StatusOK, notes)
}

type bulkNotificationRequest struct {
	Action upstream.NotificationAction `json:"action"`
	IDs    []string                    `json:"ids"`
}

var bulkActions = map[upstream.NotificationAction]bool{
	upstream.NotificationMarkRead:   true,
	upstream.NotificationMarkUnread: true,
	upstream.NotificationStar:       true,
	upstream.NotificationUnstar:     true,
	upstream.NotificationArchive:    true,
}

func (h *Handler) handleBulkNotifications(w http.ResponseWriter, r *http.Request) {
	var req bulkNotificationRequest
	if err := platformhttp.DecodeJSON(r, &req); err != nil {
		platformhttp.WriteBadRequest(w, "malformed request body")
		return
	}
	if !bulkActions[req.Action] {
		platformhttp.WriteBadRequest(w, "unknown bulk action")
		return
	}
	if len(req.IDs) == 0 {
		platformhttp.WriteBadRequest(w, "ids must not be empty")
		return
	}

	if err := h.api.BulkNotificationAction(r.Context(), req.Action, req.IDs); err != nil {
		h.writeUpstreamError(w, r, "bulk notification action failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type sessionsResponse struct {
	Sessions []session.Summary `json:"sessions"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		platformhttp.WriteBadRequest(w, "no authenticated user")
		return
	}

	sessions, err := h.sessions.ListByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "session listing failed",
			"user_id", userID,
			"error", err,
		)
		platformhttp.WriteError(w, err)
		return
	}

	resp := sessionsResponse{Sessions: make([]session.Summary, 0, len(sessions))}
	current := requestcontext.SessionID(ctx)
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, s.Summarize(current))
	}

	platformhttp.WriteJSON(w, http.StatusOK, resp)
}

// handleRevokeSession signs the user out of one of their other devices. The
// session must belong to the caller; revoking someone else's session is a 404,
// not a 403, to avoid confirming the ID exists.
func (h *Handler) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		platformhttp.WriteBadRequest(w, "no authenticated user")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	owned, err := h.sessions.ListByUser(ctx, userID)
	if err != nil {
		platformhttp.WriteError(w, err)
		return
	}
	var target *session.Session
	for _, s := range owned {
		if s.ID == sessionID {
			target = s
			break
		}
	}
	if target == nil {
		platformhttp.WriteError(w, sentinel.ErrNotFound)
		return
	}

	if err := h.sessions.Revoke(ctx, sessionID, requestcontext.Now(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "session revocation failed",
			"session_id", sessionID,
			"error", err,
		)
		platformhttp.WriteError(w, err)
		return
	}

	if h.trail != nil {
		h.trail.Record(audit.Event{
			Category:  audit.CategoryOperations,
			Action:    audit.ActionSessionRevoked,
			Path:      r.URL.Path,
			UserID:    userID,
			RequestID: requestcontext.RequestID(ctx),
			ClientIP:  requestcontext.ClientIP(ctx),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeUpstreamError maps upstream failures to the gateway's error envelope.
// Non-2xx upstream statuses pass through; transport failures become 502.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		platformhttp.WriteJSON(w, apiErr.Status, map[string]string{"error": apiErr.Message})
		return
	}
	platformhttp.WriteJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream_unavailable"})
}
