package identity

import (
	"context"
	"time"
)

// Identity is Parley's canonical security principal.
//
// Key is a unique, immutable email-like string. Verifier is the PHC-encoded
// output of the credential transform; the plaintext secret is never stored.
type Identity struct {
	Key         string
	Verifier    string
	DisplayName string

	CreatedAt time.Time
}

// Store is the identity persistence boundary.
//
// Contract:
//   - Insert fails with a ConflictError when the key already exists;
//     uniqueness is enforced by the store, not the caller.
//   - GetAll returns identities in insertion order.
//   - Update and Delete report (false, nil) when the key is absent; they are
//     single atomic operations safe under concurrent callers.
type Store interface {
	Insert(ctx context.Context, id Identity) error
	GetByKey(ctx context.Context, key string) (Identity, error)
	GetAll(ctx context.Context) ([]Identity, error)
	Update(ctx context.Context, id Identity) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
}
