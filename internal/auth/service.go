package auth

import (
	"context"
	"fmt"
	"time"

	"parley/internal/identity"
	"parley/internal/security/credential"
	sectoken "parley/internal/security/token"
)

// Service authenticates credentials and validates bearer tokens against a
// claimed identity.
//
// Authentication attempt flow:
// lookup -> credential check -> {issued | rejected}. Unknown key and wrong
// secret are indistinguishable in the result.
type Service struct {
	cfg    Config
	store  identity.Store
	creds  credential.Config
	tokens TokenManager

	// dummyVerifier absorbs the credential check cost when the identity is
	// missing, keeping the two rejection paths timing-comparable.
	dummyVerifier string
}

// NewService constructs an auth Service over the identity store.
func NewService(cfg Config, store identity.Store, creds credential.Config) (*Service, error) {
	tokens, err := NewHMACTokenManager(cfg)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		store:  store,
		creds:  creds,
		tokens: tokens,
	}

	if v, err := creds.Derive("dummy-secret-for-timing-only"); err == nil {
		s.dummyVerifier = v
	}

	return s, nil
}

// Authenticate checks the secret against the stored verifier and, on success,
// returns a fresh bearer token bound to the identity's current verifier.
func (s *Service) Authenticate(ctx context.Context, key, secret string) (string, error) {
	key = identity.NormalizeKey(key)
	now := time.Now().UTC()

	id, err := s.store.GetByKey(ctx, key)
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: perform a dummy verify when the identity
			// is missing.
			if s.dummyVerifier != "" {
				_, _ = s.creds.Matches(secret, s.dummyVerifier)
			}
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth.Authenticate: %w", err)
	}

	ok, err := s.creds.Matches(secret, id.Verifier)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}

	fp := sectoken.FingerprintHex(id.Verifier, s.cfg.Secret)
	token, _, err := s.tokens.Issue(id.Key, fp, now)
	if err != nil {
		return "", fmt.Errorf("auth.Authenticate: issue: %w", err)
	}
	return token, nil
}

// ValidateToken verifies that token is currently valid for the claimed
// identity key. Stateless: no storage writes, one identity lookup.
//
// A token issued for a different key, or bound to a verifier that has since
// been rotated, fails with ErrInvalidToken.
func (s *Service) ValidateToken(ctx context.Context, key, token string) error {
	key = identity.NormalizeKey(key)
	now := time.Now().UTC()

	id, err := s.store.GetByKey(ctx, key)
	if err != nil {
		if identity.IsNotFound(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("auth.ValidateToken: %w", err)
	}

	claims, err := s.tokens.Verify(token, now)
	if err != nil {
		return ErrInvalidToken
	}

	if claims.IdentityKey != key {
		return ErrInvalidToken
	}

	fp := sectoken.FingerprintHex(id.Verifier, s.cfg.Secret)
	if !sectoken.FingerprintEqual(claims.VerifierFingerprint, fp) {
		return ErrInvalidToken
	}

	return nil
}
