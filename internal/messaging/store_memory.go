package messaging

import (
	"context"
	"sync"
)

const memMaxMessages = 100_000

// MemoryStore is a dev/CI fallback when no database is configured.
// Messages are kept in insertion order.
type MemoryStore struct {
	mu   sync.Mutex
	msgs []Message
}

// NewMemoryStore constructs an in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		msgs: make([]Message, 0, 256),
	}
}

// Insert appends a message.
func (s *MemoryStore) Insert(ctx context.Context, msg Message) error {
	if msg.ID == "" || msg.Sender == "" || msg.Recipient == "" {
		return ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = append(s.msgs, msg)

	// Bound memory to avoid unbounded growth in dev.
	if len(s.msgs) > memMaxMessages {
		s.msgs = s.msgs[len(s.msgs)-memMaxMessages:]
	}
	return nil
}

// QueryBySender returns messages sent by key, in insertion order.
func (s *MemoryStore) QueryBySender(ctx context.Context, key string) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool { return m.Sender == key })
}

// QueryByRecipient returns messages received by key, in insertion order.
func (s *MemoryStore) QueryByRecipient(ctx context.Context, key string) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool { return m.Recipient == key })
}

// QueryByParticipant returns messages sent or received by key, in insertion order.
func (s *MemoryStore) QueryByParticipant(ctx context.Context, key string) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool { return m.Sender == key || m.Recipient == key })
}

func (s *MemoryStore) filter(ctx context.Context, keep func(Message) bool) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, 0)
	for _, m := range s.msgs {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}
