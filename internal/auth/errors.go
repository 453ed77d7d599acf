package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown identity key or a
	// non-matching secret. The two cases are deliberately indistinguishable
	// to avoid user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token fails verification: bad
	// signature, wrong issuer, expired, issued for a different identity, or
	// bound to a verifier that has since been rotated.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
