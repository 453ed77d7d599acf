// Package token provides the keyed fingerprint primitives that bind issued
// bearer tokens to a stored credential verifier.
//
// The fingerprint of the verifier, not the verifier itself, is embedded in
// tokens: rotating a credential changes the fingerprint and implicitly
// invalidates every previously issued token for that identity.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"os"
	"strings"
)

const (
	// SecretEnvKey is the env var name for the server token secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	SecretEnvKey = "PARLEY_TOKEN_SECRET"

	// MinSecretBytes is the minimum accepted secret length.
	MinSecretBytes = 32
)

// HashSHA256Hex returns a SHA-256 hex digest of s.
func HashSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// FingerprintHex returns an HMAC-SHA256 hex fingerprint of a stored verifier
// under key. Output is always a 64-char hex string.
func FingerprintHex(verifier string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(verifier))
	return hex.EncodeToString(m.Sum(nil))
}

// FingerprintEqual compares two fingerprints in constant time.
func FingerprintEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SecretFromEnv returns the configured token secret bytes (trimmed),
// enforcing the minimum byte length.
// If the env var is missing/blank -> ErrSecretMissing.
// If too short -> ErrSecretTooShort.
func SecretFromEnv() ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(SecretEnvKey))
	if raw == "" {
		return nil, ErrSecretMissing
	}
	b := []byte(raw)
	if len(b) < MinSecretBytes {
		return nil, ErrSecretTooShort
	}
	return b, nil
}
