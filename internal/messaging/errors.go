package messaging

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	// ErrUnauthorized is returned when the presented token does not validate
	// for the identity the operation claims to act as.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned for missing or malformed operation input.
	ErrInvalidInput = errors.New("invalid_input")

	// ErrEmptyBody is returned when a send carries no message text.
	ErrEmptyBody = errors.New("empty message body")
)
