// Package requestmeta provides middleware for request-scoped metadata.
// Every operation within a single HTTP request shares one "now"
// timestamp and one request id, keeping domain timestamps and log lines
// consistent across the claim, tag, and payment layers.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"claimbank/pkg/requestcontext"
)

// Middleware stamps the request context with a generated request id and
// the wall-clock time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
