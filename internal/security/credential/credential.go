package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Version = 19 // argon2.Version is 0x13 (19)
)

// Validate checks secret policy. It does not mutate input.
// Characters are counted as runes, not bytes.
func (c Config) Validate(secret string) error {
	n := utf8.RuneCountInString(secret)

	if n < c.Policy.MinLength {
		return ErrSecretTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrSecretTooLong
	}
	return nil
}

// Derive turns a plaintext secret into a storable verifier.
// Format:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
//
// A fresh random salt is generated per call, so two derivations of the same
// plaintext never produce equal verifiers.
func (c Config) Derive(secret string) (string, error) {
	if err := c.Validate(secret); err != nil {
		return "", err
	}

	salt := make([]byte, c.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(secret),
		salt,
		c.Params.Iterations,
		c.Params.MemoryKiB,
		c.Params.Parallelism,
		c.Params.KeyLength,
	)

	b64 := base64.RawStdEncoding

	enc := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		c.Params.MemoryKiB,
		c.Params.Iterations,
		c.Params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	)

	return enc, nil
}

// Matches checks whether secret matches the given verifier.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidVerifier) for malformed/unsupported verifiers.
func (c Config) Matches(secret, verifier string) (bool, error) {
	params, salt, expected, err := decode(verifier)
	if err != nil {
		return false, err
	}

	// Anti-DoS boundary: refuse to verify if params exceed our configured
	// maximums by a large margin (prevents attacker-controlled verifier
	// strings from causing pathological resource usage).
	if !withinReasonableBounds(params, c.Params) {
		return false, ErrInvalidVerifier
	}

	key := argon2.IDKey(
		[]byte(secret),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		uint32(len(expected)), // #nosec G115 -- expected length is bounded by decode(); safe conversion.
	)

	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}

func withinReasonableBounds(got Argon2idParams, limits Argon2idParams) bool {
	// Allow verifying verifiers generated with older/smaller settings,
	// but reject wildly larger settings.
	if got.MemoryKiB > limits.MemoryKiB*2 {
		return false
	}
	if got.Iterations > limits.Iterations*2 {
		return false
	}
	if got.Parallelism > limits.Parallelism*2 {
		return false
	}
	if got.SaltLength < 8 || got.SaltLength > 64 {
		return false
	}
	if got.KeyLength < 16 || got.KeyLength > 128 {
		return false
	}
	return true
}

// decode parses the encoded verifier and returns params, salt and expected key.
func decode(encoded string) (Argon2idParams, []byte, []byte, error) {
	// Expected:
	// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<key>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}

	if parts[2] != "v=19" {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}

	if !strings.HasPrefix(parts[3], "m=") {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}
	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, ErrInvalidVerifier
	}

	params := Argon2idParams{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),       // #nosec G115 -- bounded (par <= 255) above.
		SaltLength:  uint32(len(salt)), // #nosec G115 -- salt length bounded by withinReasonableBounds.
		KeyLength:   uint32(len(key)),  // #nosec G115 -- key length bounded by withinReasonableBounds.
	}

	return params, salt, key, nil
}
