package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"docgate/pkg/requestcontext"
)

// AdminClaims carries the identity the admin console authenticates with.
type AdminClaims struct {
	ActorID string
	Role    string
}

// TokenValidator validates a bearer token and extracts admin claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*AdminClaims, error)
}

// RequireAdmin guards the admin API. The actor lands in the request context so
// services can attribute history entries and audit events.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized: missing bearer token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized: invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := requestcontext.WithActorID(r.Context(), claims.ActorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}
