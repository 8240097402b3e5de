// Package redact prepares request and response bodies for the log sink.
// Binary payloads are omitted wholesale, oversize text is truncated, and
// contact fields are masked. Redaction always works on its own copy; the
// bytes used by business logic are never touched.
package redact

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MaxTextBytes is the ceiling for non-binary logged bodies.
const MaxTextBytes = 10 << 10

var binaryPrefixes = []string{"image/", "video/", "audio/"}

var binaryTypes = map[string]struct{}{
	"application/pdf":          {},
	"application/zip":          {},
	"application/gzip":         {},
	"application/octet-stream": {},
}

// OmittedBody replaces binary payloads in the log.
type OmittedBody struct {
	Omitted       bool   `json:"omitted"`
	ContentType   string `json:"contentType"`
	ContentLength int64  `json:"contentLength"`
}

// TruncatedBody replaces oversize text payloads in the log.
type TruncatedBody struct {
	Content      string `json:"content"`
	Truncated    bool   `json:"truncated"`
	OriginalSize int64  `json:"originalSize"`
}

// Body returns a log-safe representation of a body. originalSize is the full
// transport size, which may exceed len(body) when the caller captured only a
// prefix. Order matters: binary and size handling first, contact masking over
// whatever remains.
func Body(contentType string, body []byte, originalSize int64) any {
	if isBinary(contentType) {
		return OmittedBody{Omitted: true, ContentType: contentType, ContentLength: originalSize}
	}

	if originalSize > MaxTextBytes || int64(len(body)) > MaxTextBytes {
		capped := body
		if int64(len(capped)) > MaxTextBytes {
			capped = capped[:MaxTextBytes]
		}
		return TruncatedBody{Content: maskRawContacts(string(capped)), Truncated: true, OriginalSize: originalSize}
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return maskContacts(parsed)
}

func isBinary(contentType string) bool {
	ct := contentType
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(strings.ToLower(ct))
	for _, p := range binaryPrefixes {
		if strings.HasPrefix(ct, p) {
			return true
		}
	}
	_, ok := binaryTypes[ct]
	return ok
}

var (
	contactFieldPattern = regexp.MustCompile(`"(email|phone)"(\s*:\s*)"((?:[^"\\]|\\.)*)"`)
	contactTailPattern  = regexp.MustCompile(`"(email|phone)"(\s*:\s*)"(?:[^"\\]|\\.)*$`)
)

// maskRawContacts masks contact values in text that no longer parses as
// JSON, such as a truncated prefix. A contact value cut off by the
// truncation boundary itself is masked entirely.
func maskRawContacts(s string) string {
	s = contactFieldPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := contactFieldPattern.FindStringSubmatch(m)
		masked := Email(sub[3])
		if sub[1] == "phone" {
			masked = Phone(sub[3])
		}
		return `"` + sub[1] + `"` + sub[2] + `"` + masked + `"`
	})
	return contactTailPattern.ReplaceAllString(s, `"$1"$2"***`)
}

// maskContacts walks a decoded JSON value and masks every field literally
// named "email" or "phone", however deeply nested. The input came from our
// own Unmarshal, so mutating it in place touches no caller data.
func maskContacts(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			switch k {
			case "email":
				if s, ok := child.(string); ok {
					val[k] = Email(s)
					continue
				}
			case "phone":
				if s, ok := child.(string); ok {
					val[k] = Phone(s)
					continue
				}
			}
			val[k] = maskContacts(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = maskContacts(child)
		}
		return val
	default:
		return v
	}
}

// Email keeps the first local-part character and the domain: j***@example.com.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}

// Phone keeps only the last three digits: ***789.
func Phone(s string) string {
	if len(s) <= 3 {
		return "***"
	}
	return "***" + s[len(s)-3:]
}
