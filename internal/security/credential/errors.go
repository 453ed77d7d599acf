package credential

import "errors"

// Public, stable errors for callers.
var (
	ErrSecretTooShort = errors.New("secret too short")
	ErrSecretTooLong  = errors.New("secret too long")

	// ErrInvalidVerifier is returned for malformed or unsupported verifier
	// strings. Matches never panics on attacker-supplied input.
	ErrInvalidVerifier = errors.New("invalid verifier format")
)
