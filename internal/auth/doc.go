// Package auth issues and validates bearer tokens.
//
// A token is a signed claim set binding an identity key to a keyed fingerprint
// of its stored credential verifier at issuance time. Validation is stateless:
// one identity lookup plus pure computation, no writes, no revocation list.
// Rotating the credential changes the fingerprint and thereby invalidates all
// previously issued tokens for that identity.
package auth
