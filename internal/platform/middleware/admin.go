package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"pawtrail/internal/httpapi/shared"
	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/requestcontext"
)

// HeaderAdminToken guards the privileged maintenance endpoints. This is the
// lower-assurance path: one shared static token for operator tooling, never
// for per-resource data.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken rejects requests whose X-Admin-Token header does not
// equal the configured token. An empty configured token disables the
// endpoints entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if token == "" {
				shared.WriteError(w, r, dErrors.New(dErrors.CodeUnauthenticated, "admin token required"))
				return
			}
			// Constant-time comparison to prevent timing attacks.
			if expectedToken == "" ||
				subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(r.Context(), "admin token mismatch",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				shared.WriteError(w, r, dErrors.New(dErrors.CodeUnauthorized, "invalid admin token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
