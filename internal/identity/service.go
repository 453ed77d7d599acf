package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"parley/internal/security/credential"
)

// Service implements registration and profile management over a Store.
//
// Credential derivation is delegated to the credential transform; the service
// never sees or stores a plaintext secret beyond the call boundary.
type Service struct {
	store Store
	creds credential.Config
}

// NewService constructs a Service with the provided store and credential config.
func NewService(store Store, creds credential.Config) *Service {
	return &Service{store: store, creds: creds}
}

// Register creates a new identity.
//
// The secret must satisfy the minimum-length policy (>= 8 characters) before
// the credential transform runs. A duplicate key yields a ConflictError.
func (s *Service) Register(ctx context.Context, key, secret, displayName string) (Identity, error) {
	const op = "identity.Register"

	key = NormalizeKey(key)
	if key == "" {
		return Identity{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "key is required"}
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Identity{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "display name is required"}
	}

	verifier, err := s.creds.Derive(secret)
	if err != nil {
		return Identity{}, classifySecretError(op, err)
	}

	id := Identity{
		Key:         key,
		Verifier:    verifier,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Lookup returns the identity for key, or a NotFoundError.
func (s *Service) Lookup(ctx context.Context, key string) (Identity, error) {
	return s.store.GetByKey(ctx, NormalizeKey(key))
}

// ListAll returns all identities in insertion order.
func (s *Service) ListAll(ctx context.Context) ([]Identity, error) {
	return s.store.GetAll(ctx)
}

// Update re-derives the verifier from newSecret and replaces the display name.
// It reports (false, nil) when the key is absent.
//
// Rotating the credential implicitly invalidates previously issued tokens:
// they carry a fingerprint of the old verifier.
func (s *Service) Update(ctx context.Context, key, newSecret, newDisplayName string) (bool, error) {
	const op = "identity.Update"

	key = NormalizeKey(key)
	if key == "" {
		return false, OpError{Op: op, Kind: ErrInvalidInput, Msg: "key is required"}
	}
	newDisplayName = strings.TrimSpace(newDisplayName)
	if newDisplayName == "" {
		return false, OpError{Op: op, Kind: ErrInvalidInput, Msg: "display name is required"}
	}

	verifier, err := s.creds.Derive(newSecret)
	if err != nil {
		return false, classifySecretError(op, err)
	}

	return s.store.Update(ctx, Identity{
		Key:         key,
		Verifier:    verifier,
		DisplayName: newDisplayName,
	})
}

// Remove deletes the identity for key. Prior messages are kept: the message
// log carries no referential integrity against identity deletion.
func (s *Service) Remove(ctx context.Context, key string) (bool, error) {
	return s.store.Delete(ctx, NormalizeKey(key))
}

func classifySecretError(op string, err error) error {
	switch {
	case errors.Is(err, credential.ErrSecretTooShort):
		return OpError{Op: op, Kind: ErrWeakSecret, Msg: "secret must have at least 8 characters"}
	case errors.Is(err, credential.ErrSecretTooLong):
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "secret is too long"}
	default:
		return err
	}
}
