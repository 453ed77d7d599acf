package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parley/internal/auth"
	"parley/internal/identity"
)

// Service enforces the authorization contract in front of the message store:
// every write and read is gated on "the token must validate for the identity
// the caller claims to act as".
type Service struct {
	store Store
	auth  TokenValidator
}

// NewService constructs a messaging Service.
func NewService(store Store, auth TokenValidator) *Service {
	return &Service{store: store, auth: auth}
}

// Send appends a message from senderKey to recipientKey.
//
// The token must validate for senderKey specifically: a valid token for some
// other identity cannot be used to send "as" senderKey, regardless of what the
// request body claims.
func (s *Service) Send(ctx context.Context, token, senderKey, recipientKey, body string) (Message, error) {
	const op = "messaging.Send"

	senderKey = identity.NormalizeKey(senderKey)
	recipientKey = identity.NormalizeKey(recipientKey)

	if senderKey == "" || recipientKey == "" {
		return Message{}, fmt.Errorf("%s: %w: sender and recipient are required", op, ErrInvalidInput)
	}
	if strings.TrimSpace(body) == "" {
		return Message{}, fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}

	if err := s.auth.ValidateToken(ctx, senderKey, token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return Message{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		// Anything else is an infrastructure failure, not a rejection.
		return Message{}, fmt.Errorf("%s: validate token: %w", op, err)
	}

	now := time.Now().UTC()
	id, err := newMessageID(now)
	if err != nil {
		return Message{}, fmt.Errorf("%s: %w", op, err)
	}

	msg := Message{
		ID:        id,
		Sender:    senderKey,
		Recipient: recipientKey,
		Body:      body,
		SentAt:    now,
	}

	if err := s.store.Insert(ctx, msg); err != nil {
		return Message{}, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// MessagesFor returns key's mailbox filtered by direction, in chronological
// order.
//
// The token must validate for key in every direction: a caller may only read
// their own mailbox, never another identity's.
func (s *Service) MessagesFor(ctx context.Context, token, key string, dir Direction) ([]Message, error) {
	const op = "messaging.MessagesFor"

	key = identity.NormalizeKey(key)
	if key == "" {
		return nil, fmt.Errorf("%s: %w: key is required", op, ErrInvalidInput)
	}

	if err := s.auth.ValidateToken(ctx, key, token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		// Anything else is an infrastructure failure, not a rejection.
		return nil, fmt.Errorf("%s: validate token: %w", op, err)
	}

	var (
		msgs []Message
		err  error
	)
	switch dir {
	case DirectionSent:
		msgs, err = s.store.QueryBySender(ctx, key)
	case DirectionReceived:
		msgs, err = s.store.QueryByRecipient(ctx, key)
	default:
		msgs, err = s.store.QueryByParticipant(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}
