// Package credential implements the salted one-way credential transform.
//
// A plaintext secret is turned into a storable verifier via Argon2id with a
// fresh random salt per derivation; the salt and cost parameters travel inside
// the PHC-encoded verifier string. Verification recomputes the transform with
// the embedded salt and compares in constant time.
package credential
