package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/internal/auth"
	"parley/internal/identity"
	"parley/internal/security/credential"
)

func fastCreds() credential.Config {
	cfg := credential.DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

type msgFixture struct {
	ids  *identity.Service
	auth *auth.Service
	msgs *Service
}

func newMsgFixture(t *testing.T) msgFixture {
	t.Helper()

	idStore := identity.NewMemoryStore()
	creds := fastCreds()

	authCfg := auth.DefaultConfig()
	authCfg.Secret = []byte(strings.Repeat("s", 32))
	authSvc, err := auth.NewService(authCfg, idStore, creds)
	require.NoError(t, err)

	return msgFixture{
		ids:  identity.NewService(idStore, creds),
		auth: authSvc,
		msgs: NewService(NewMemoryStore(), authSvc),
	}
}

func (f msgFixture) register(t *testing.T, key, secret string) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.ids.Register(ctx, key, secret, key)
	require.NoError(t, err)
	token, err := f.auth.Authenticate(ctx, key, secret)
	require.NoError(t, err)
	return token
}

func TestSend_And_ReadOwnMailbox(t *testing.T) {
	f := newMsgFixture(t)
	ctx := context.Background()

	tokenA := f.register(t, "alice@x.com", "password123")

	msg, err := f.msgs.Send(ctx, tokenA, "alice@x.com", "bob@x.com", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	sent, err := f.msgs.MessagesFor(ctx, tokenA, "alice@x.com", DirectionSent)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@x.com", sent[0].Sender)
	assert.Equal(t, "bob@x.com", sent[0].Recipient)
	assert.Equal(t, "hi", sent[0].Body)
}

func TestSend_TokenBoundToSender(t *testing.T) {
	f := newMsgFixture(t)
	ctx := context.Background()

	tokenA := f.register(t, "alice@x.com", "password123")
	f.register(t, "bob@x.com", "password456")

	// A token issued for alice cannot send "as" bob, even though bob exists.
	_, err := f.msgs.Send(ctx, tokenA, "bob@x.com", "alice@x.com", "spoofed")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSend_EmptyBody(t *testing.T) {
	f := newMsgFixture(t)
	ctx := context.Background()

	tokenA := f.register(t, "alice@x.com", "password123")

	_, err := f.msgs.Send(ctx, tokenA, "alice@x.com", "bob@x.com", "   ")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestMessagesFor_OwnMailboxOnly(t *testing.T) {
	f := newMsgFixture(t)
	ctx := context.Background()

	tokenA := f.register(t, "alice@x.com", "password123")
	f.register(t, "bob@x.com", "password456")

	_, err := f.msgs.Send(ctx, tokenA, "alice@x.com", "bob@x.com", "hi")
	require.NoError(t, err)

	// alice's token never reads bob's mailbox, regardless of direction.
	for _, dir := range []Direction{DirectionAll, DirectionSent, DirectionReceived} {
		_, err := f.msgs.MessagesFor(ctx, tokenA, "bob@x.com", dir)
		assert.ErrorIs(t, err, ErrUnauthorized, "direction %s", dir)
	}
}

func TestMessagesFor_DirectionFiltering(t *testing.T) {
	f := newMsgFixture(t)
	ctx := context.Background()

	tokenA := f.register(t, "alice@x.com", "password123")
	tokenB := f.register(t, "bob@x.com", "password456")

	_, err := f.msgs.Send(ctx, tokenA, "alice@x.com", "bob@x.com", "one")
	require.NoError(t, err)
	_, err = f.msgs.Send(ctx, tokenB, "bob@x.com", "alice@x.com", "two")
	require.NoError(t, err)
	_, err = f.msgs.Send(ctx, tokenA, "alice@x.com", "carol@x.com", "three")
	require.NoError(t, err)

	sent, err := f.msgs.MessagesFor(ctx, tokenA, "alice@x.com", DirectionSent)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, "one", sent[0].Body)
	assert.Equal(t, "three", sent[1].Body)

	received, err := f.msgs.MessagesFor(ctx, tokenA, "alice@x.com", DirectionReceived)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "two", received[0].Body)

	all, err := f.msgs.MessagesFor(ctx, tokenA, "alice@x.com", DirectionAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Chronological order across directions.
	assert.Equal(t, "one", all[0].Body)
	assert.Equal(t, "two", all[1].Body)
	assert.Equal(t, "three", all[2].Body)
}

// stubValidator lets tests control the token gate's answer directly.
type stubValidator struct {
	err error
}

func (v stubValidator) ValidateToken(_ context.Context, _, _ string) error {
	return v.err
}

func TestSend_ValidatorStoreFailurePropagates(t *testing.T) {
	ctx := context.Background()

	storeErr := errors.New("connection refused")
	svc := NewService(NewMemoryStore(), stubValidator{
		err: fmt.Errorf("auth.ValidateToken: identity.GetByKey: %w", storeErr),
	})

	_, err := svc.Send(ctx, "token", "alice@x.com", "bob@x.com", "hi")
	require.Error(t, err)
	// An infrastructure failure during token validation is not a rejection.
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, storeErr)
}

func TestSend_InvalidTokenIsUnauthorized(t *testing.T) {
	ctx := context.Background()

	svc := NewService(NewMemoryStore(), stubValidator{err: auth.ErrInvalidToken})

	_, err := svc.Send(ctx, "token", "alice@x.com", "bob@x.com", "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMessagesFor_ValidatorStoreFailurePropagates(t *testing.T) {
	ctx := context.Background()

	storeErr := errors.New("connection refused")
	svc := NewService(NewMemoryStore(), stubValidator{
		err: fmt.Errorf("auth.ValidateToken: identity.GetByKey: %w", storeErr),
	})

	for _, dir := range []Direction{DirectionAll, DirectionSent, DirectionReceived} {
		_, err := svc.MessagesFor(ctx, "token", "alice@x.com", dir)
		require.Error(t, err, "direction %s", dir)
		assert.NotErrorIs(t, err, ErrUnauthorized, "direction %s", dir)
		assert.ErrorIs(t, err, storeErr, "direction %s", dir)
	}
}

func TestMessagesFor_HistorySurvivesIdentityDeletion(t *testing.T) {
	f := newMsgFixture(t)
	ctx := context.Background()

	tokenA := f.register(t, "alice@x.com", "password123")
	tokenB := f.register(t, "bob@x.com", "password456")

	_, err := f.msgs.Send(ctx, tokenA, "alice@x.com", "bob@x.com", "hi")
	require.NoError(t, err)

	ok, err := f.ids.Remove(ctx, "alice@x.com")
	require.NoError(t, err)
	require.True(t, ok)

	// bob still sees the message even though the sender is gone.
	got, err := f.msgs.MessagesFor(ctx, tokenB, "bob@x.com", DirectionReceived)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice@x.com", got[0].Sender)
}
