// Package secrets owns the management-password lifecycle: generation of the
// one-time plaintext, memory-hard derivation for storage, and constant-time
// verification. The plaintext is returned to the caller exactly once at
// creation time and never persisted or logged.
package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	dErrors "pawtrail/pkg/domain-errors"
)

// argon2id parameters. Fixed for the lifetime of a stored credential; a
// parameter bump requires re-hashing on next successful verify (not done
// here, all credentials are created under one parameter set).
const (
	saltLen    = 16
	keyLen     = 32
	argonTime  = 1
	argonMem   = 64 * 1024 // KiB
	argonLanes = 4
)

// Generate creates a cryptographically secure random management password.
// 18 bytes base64url-encoded: 24 characters, comfortable to copy once.
func Generate() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash derives a storable credential from the secret using argon2id with a
// fresh random salt. The stored form is hex(salt):hex(derivedKey) and never
// contains the plaintext.
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidParameter, "secret cannot be empty")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("could not generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(secret), salt, argonTime, argonMem, argonLanes, keyLen)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify reports whether the plaintext secret matches the stored credential.
// The derived keys are compared in constant time so prefix matches leak no
// timing signal. A malformed stored value verifies as false, not as an error:
// the caller only ever learns match / no match.
func Verify(secret, stored string) bool {
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != saltLen {
		return false
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) != keyLen {
		return false
	}
	got := argon2.IDKey([]byte(secret), salt, argonTime, argonMem, argonLanes, keyLen)
	return subtle.ConstantTimeCompare(got, want) == 1
}
