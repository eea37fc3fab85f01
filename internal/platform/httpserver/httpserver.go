package httpserver

import (
	"net/http"
	"time"
)

// New builds the registry API server. Write and idle timeouts are
// sized for batch submissions, which hold a request open while the
// whole unit of work commits.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
