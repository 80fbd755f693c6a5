package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for an edge gateway. Write
// timeout stays generous because proxied upstream calls are included in it.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
