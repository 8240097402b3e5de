// Package photo owns upload integrity checking and the on-disk photo files.
// File type is decided by sniffing byte content, never by trusting the
// client's content type or filename; replacement is atomic so a half-written
// upload is never externally observable.
package photo

import (
	"net/http"
	"regexp"
	"strings"

	dErrors "pawtrail/pkg/domain-errors"
)

// extensionsByMIME is the fixed allow-list of raster image formats. Anything
// else — documents, SVG, scripts renamed to .jpg — is rejected.
var extensionsByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Sniff validates an upload buffer and returns the file extension derived
// from its sniffed type. The size ceiling is enforced first, before any type
// detection, so an oversize buffer is rejected without further processing.
func Sniff(data []byte, maxBytes int64) (string, error) {
	if int64(len(data)) > maxBytes {
		return "", dErrors.New(dErrors.CodePayloadTooLarge, "photo is too large").
			WithField("photo")
	}
	if len(data) == 0 {
		return "", dErrors.New(dErrors.CodeInvalidFileFormat, "photo content is not an allowed image format").
			WithField("photo")
	}

	mime := http.DetectContentType(data)
	ext, ok := extensionsByMIME[mime]
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidFileFormat, "photo content is not an allowed image format").
			WithField("photo")
	}
	return ext, nil
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	runsOfSpace  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a client-supplied filename safe to log or display:
// control characters and path separators are stripped, ".." sequences
// removed, whitespace collapsed, case lowered. The result is never used as
// the storage name — that is always derived from the listing id and the
// sniffed type.
func SanitizeFilename(name string) string {
	s := controlChars.ReplaceAllString(name, "")
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "\\", "")
	s = strings.ReplaceAll(s, "..", "")
	s = runsOfSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(strings.ToLower(s))
	return s
}
