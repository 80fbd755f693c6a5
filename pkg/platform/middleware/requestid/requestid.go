// Package requestid assigns each request a correlation ID. Downstream handlers
// and the audit trail use it to stitch a request's log lines together.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"talentgate/pkg/requestcontext"
)

// Header carries the correlation ID to upstream services and back to clients.
const Header = "X-Request-Id"

// Middleware reuses an inbound X-Request-Id when present (trusted LB in front)
// or mints a new one, stores it in the context, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
