// Package proxy forwards gated requests to the upstream application. The
// access middleware has already decided the request may pass; this layer
// scrubs any identity headers the client tried to smuggle in and attaches the
// ones the gate decided on.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"talentgate/internal/access"
	platformhttp "talentgate/pkg/platform/httputil"
	"talentgate/pkg/requestcontext"
)

// identityHeaders are trusted only when set by the gate. Inbound copies are
// always stripped before forwarding.
var identityHeaders = []string{
	access.HeaderUserID,
	access.HeaderUserRole,
	access.HeaderCompanyID,
	access.HeaderSuperAdmin,
	access.HeaderCandidateEmail,
	access.HeaderCandidateAuthenticated,
	access.HeaderDashboardAccess,
}

// Proxy is a reverse proxy to the upstream application server.
type Proxy struct {
	inner  *httputil.ReverseProxy
	logger *slog.Logger
}

func New(upstream *url.URL, logger *slog.Logger) *Proxy {
	p := &Proxy{logger: logger}

	p.inner = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(upstream)
			r.SetXForwarded()

			for _, name := range identityHeaders {
				r.Out.Header.Del(name)
			}
			for name, value := range access.ForwardHeaders(r.In.Context()) {
				r.Out.Header.Set(name, value)
			}
			if id := requestcontext.RequestID(r.In.Context()); id != "" {
				r.Out.Header.Set("X-Request-Id", id)
			}
		},
		ErrorHandler: p.handleError,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 32,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return p
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.inner.ServeHTTP(w, r)
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.ErrorContext(r.Context(), "upstream request failed",
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err,
	)
	platformhttp.WriteJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream_unavailable"})
}
