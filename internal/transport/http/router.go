// Package httptransport assembles the gateway's HTTP surface: the middleware
// chain, the BFF routes, operational endpoints, and the catch-all proxy to the
// upstream application.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentgate/internal/access"
	bffhandler "talentgate/internal/bff/handler"
	"talentgate/internal/proxy"
	"talentgate/pkg/platform/middleware/metadata"
	"talentgate/pkg/platform/middleware/requestid"
	"talentgate/pkg/platform/middleware/requesttime"
)

// Deps are the wired components the router mounts.
type Deps struct {
	Gate  *access.Middleware
	BFF   *bffhandler.Handler
	Proxy *proxy.Proxy
}

// NewRouter builds the gateway router. Operational endpoints sit outside the
// access gate; everything else passes through it, with BFF routes handled
// locally and the remainder proxied upstream.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(gated chi.Router) {
		gated.Use(d.Gate.Gate)
		d.BFF.Register(gated)
		gated.Handle("/*", d.Proxy)
	})

	return r
}
