package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"pawtrail/internal/platform/redact"
	"pawtrail/pkg/requestcontext"
)

// Logging emits one structured line per request with redacted request and
// response bodies. Bodies are captured into bounded side buffers: business
// logic reads the original stream untouched, and at most the redactor's text
// ceiling is ever held for the log.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqCapture := &captureReader{inner: r.Body}
			r.Body = reqCapture

			respCapture := &captureWriter{ResponseWriter: w}

			next.ServeHTTP(respCapture, r)

			reqSize := r.ContentLength
			if reqSize < 0 {
				reqSize = reqCapture.total
			}

			ctx := r.Context()
			logger.InfoContext(ctx, "request completed",
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", respCapture.status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_body", redact.Body(r.Header.Get("Content-Type"), reqCapture.buf.Bytes(), reqSize),
				"response_body", redact.Body(respCapture.Header().Get("Content-Type"), respCapture.buf.Bytes(), respCapture.written),
			)
		})
	}
}

// captureReader tees the request body into a bounded buffer while counting
// the total bytes the handler actually consumed.
type captureReader struct {
	inner io.ReadCloser
	buf   bytes.Buffer
	total int64
}

func (c *captureReader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	if n > 0 {
		c.total += int64(n)
		if room := redact.MaxTextBytes - c.buf.Len(); room > 0 {
			keep := n
			if keep > room {
				keep = room
			}
			c.buf.Write(p[:keep])
		}
	}
	return n, err
}

func (c *captureReader) Close() error { return c.inner.Close() }

// captureWriter records the status code and a bounded copy of the response.
type captureWriter struct {
	http.ResponseWriter
	code    int
	written int64
	buf     bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	if c.code == 0 {
		c.code = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(p []byte) (int, error) {
	if c.code == 0 {
		c.code = http.StatusOK
	}
	n, err := c.ResponseWriter.Write(p)
	if n > 0 {
		c.written += int64(n)
		if room := redact.MaxTextBytes - c.buf.Len(); room > 0 {
			keep := n
			if keep > room {
				keep = room
			}
			c.buf.Write(p[:keep])
		}
	}
	return n, err
}

func (c *captureWriter) status() int {
	if c.code == 0 {
		return http.StatusOK
	}
	return c.code
}
