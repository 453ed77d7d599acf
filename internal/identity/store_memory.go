package identity

import (
	"context"
	"sync"
)

// MemoryStore is a dev/CI fallback when no database is configured.
// It preserves insertion order for GetAll.
type MemoryStore struct {
	mu    sync.Mutex
	byKey map[string]Identity
	order []string
}

// NewMemoryStore constructs an in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byKey: make(map[string]Identity),
	}
}

// Insert adds a new identity, failing with a ConflictError on duplicate key.
func (s *MemoryStore) Insert(ctx context.Context, id Identity) error {
	const op = "identity.Insert"

	if id.Key == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty key"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[id.Key]; ok {
		return ConflictError{Op: op, Field: "key"}
	}
	s.byKey[id.Key] = id
	s.order = append(s.order, id.Key)
	return nil
}

// GetByKey returns the identity for key or a NotFoundError.
func (s *MemoryStore) GetByKey(ctx context.Context, key string) (Identity, error) {
	const op = "identity.GetByKey"

	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return Identity{}, NotFoundError{Op: op, Resource: "identity"}
	}
	return id, nil
}

// GetAll returns all identities in insertion order.
func (s *MemoryStore) GetAll(ctx context.Context) ([]Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Identity, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out, nil
}

// Update replaces verifier and display name; reports (false, nil) when absent.
func (s *MemoryStore) Update(ctx context.Context, id Identity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byKey[id.Key]
	if !ok {
		return false, nil
	}
	existing.Verifier = id.Verifier
	existing.DisplayName = id.DisplayName
	s.byKey[id.Key] = existing
	return true, nil
}

// Delete removes the identity; reports (false, nil) when absent.
func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[key]; !ok {
		return false, nil
	}
	delete(s.byKey, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
