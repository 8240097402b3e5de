package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"pawtrail/internal/httpapi/shared"
	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/requestcontext"
)

// Recover converts panics into the standard INTERNAL envelope. The stack goes
// to the log keyed by request id; the caller sees only the generic message.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"request_id", requestcontext.RequestID(ctx),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					shared.WriteError(w, r, dErrors.Newf(dErrors.CodeInternal, "An unexpected error occurred"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
