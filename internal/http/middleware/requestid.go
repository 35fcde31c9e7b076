// Package middleware holds the HTTP middleware shared by the gateway's
// caller-facing routes.
package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with a UUID, echoes it in the response
// header and attaches it to the request's logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := hlog.FromRequest(r).With().Str("request_id", id).Logger()
		r = r.WithContext(log.WithContext(r.Context()))
		next.ServeHTTP(w, r)
	})
}
