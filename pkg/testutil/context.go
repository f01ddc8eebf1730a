package testutil

import (
	"net/http"
	"time"

	"docgate/pkg/requestcontext"
)

// WithActor adds an admin actor to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, actorID string) *http.Request {
	return req.WithContext(requestcontext.WithActorID(req.Context(), actorID))
}

// WithFixedTime pins the request-scoped clock, the way the request-time
// middleware does, so handler tests classify against a deterministic "now".
func WithFixedTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
