package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	dErrors "pawtrail/pkg/domain-errors"
)

// parseBasicAuth extracts the name:secret pair from the Authorization header.
// Every failure surfaces to the caller as the same 401; the reason string is
// for the log only, so callers cannot distinguish a missing header from a
// malformed one.
func parseBasicAuth(r *http.Request) (name, secret, reason string, err error) {
	unauthenticated := func(reason string) (string, string, string, error) {
		return "", "", reason, dErrors.New(dErrors.CodeUnauthenticated, "authentication required")
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return unauthenticated("missing header")
	}

	scheme, credentials, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return unauthenticated("wrong scheme")
	}

	decoded, decErr := base64.StdEncoding.DecodeString(credentials)
	if decErr != nil {
		return unauthenticated("bad encoding")
	}

	name, secret, found = strings.Cut(string(decoded), ":")
	if !found || strings.Contains(secret, ":") {
		return unauthenticated("not a single name:secret pair")
	}
	if name == "" || secret == "" {
		return unauthenticated("empty parts")
	}

	return name, secret, "", nil
}
