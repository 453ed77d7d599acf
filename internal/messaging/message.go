// Package messaging implements Parley's append-only message log and the
// token-gated operations over it.
package messaging

import (
	"context"
	"time"
)

// Message is the canonical persisted message representation.
//
// Sender and recipient are identity keys, captured at send time. The log
// keeps no referential integrity against identity deletion: history survives
// the deletion of either party.
type Message struct {
	ID        string // ULID, lexicographically ordered by send time
	Sender    string
	Recipient string
	Body      string
	SentAt    time.Time
}

// Direction selects which side of a mailbox a query returns.
type Direction int

const (
	// DirectionAll returns messages sent or received by the identity.
	DirectionAll Direction = iota
	// DirectionSent returns messages where the identity is the sender.
	DirectionSent
	// DirectionReceived returns messages where the identity is the recipient.
	DirectionReceived
)

// String returns the stable wire name of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionSent:
		return "sent"
	case DirectionReceived:
		return "received"
	default:
		return "all"
	}
}

// Store persists and queries messages.
//
// Requirements:
//   - Append-only: no exposed mutation or deletion.
//   - Queries ordered chronologically (insertion order).
//   - A write is durable before Insert returns nil.
type Store interface {
	Insert(ctx context.Context, msg Message) error
	QueryBySender(ctx context.Context, key string) ([]Message, error)
	QueryByRecipient(ctx context.Context, key string) ([]Message, error)
	QueryByParticipant(ctx context.Context, key string) ([]Message, error)
}

// TokenValidator is the auth boundary messaging depends on: it reports
// whether a bearer token is currently valid for the claimed identity key.
type TokenValidator interface {
	ValidateToken(ctx context.Context, key, token string) error
}
