package middleware

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"pawtrail/pkg/requestcontext"
)

// HeaderRequestID is echoed on every response, success or failure, and
// matches the requestId inside any error envelope for the same response.
const HeaderRequestID = "request-id"

const (
	requestIDLength   = 12
	requestIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// RequestID assigns a correlation id before any other request-scoped logic
// runs. It must be the first middleware in the chain: logging, error
// rendering and the response header all read the id from context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := newRequestID()

		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set(HeaderRequestID, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newRequestID draws requestIDLength characters from the 62-character
// alphanumeric set using crypto/rand with rejection sampling, so every
// character is uniformly distributed.
func newRequestID() string {
	// Largest multiple of 62 below 256; bytes at or above it are rejected.
	const limit = 62 * (256 / 62)

	id := make([]byte, 0, requestIDLength)
	buf := make([]byte, requestIDLength*2)
	for len(id) < requestIDLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms; if it does,
			// a request without an id is worse than a loud crash here.
			slog.Error("failed to read random bytes for request id", "error", err)
			panic(err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			id = append(id, requestIDAlphabet[int(b)%62])
			if len(id) == requestIDLength {
				break
			}
		}
	}
	return string(id)
}
