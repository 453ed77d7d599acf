package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

type authFixture struct {
	ids  *identity.Service
	auth *Service
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	store := identity.NewMemoryStore()
	creds := fastCreds()

	cfg := DefaultConfig()
	cfg.Secret = []byte(strings.Repeat("s", 32))

	svc, err := NewService(cfg, store, creds)
	require.NoError(t, err)

	return authFixture{
		ids:  identity.NewService(store, creds),
		auth: svc,
	}
}

func TestAuthenticate_IssuesValidToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.ids.Register(ctx, "alice@x.com", "password123", "Alice")
	require.NoError(t, err)

	token, err := f.auth.Authenticate(ctx, "alice@x.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, f.auth.ValidateToken(ctx, "alice@x.com", token))
}

func TestAuthenticate_RejectsWrongSecret(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.ids.Register(ctx, "alice@x.com", "password123", "Alice")
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, "alice@x.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownKeyIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)

	// Unknown identity must produce the same error as a wrong secret.
	_, err := f.auth.Authenticate(context.Background(), "ghost@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_WrongIdentity(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.ids.Register(ctx, "alice@x.com", "password123", "Alice")
	require.NoError(t, err)
	_, err = f.ids.Register(ctx, "bob@x.com", "password456", "Bob")
	require.NoError(t, err)

	tokenA, err := f.auth.Authenticate(ctx, "alice@x.com", "password123")
	require.NoError(t, err)

	// A token issued for alice never validates for bob.
	assert.ErrorIs(t, f.auth.ValidateToken(ctx, "bob@x.com", tokenA), ErrInvalidToken)
}

func TestValidateToken_UnknownIdentity(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.ids.Register(ctx, "alice@x.com", "password123", "Alice")
	require.NoError(t, err)

	token, err := f.auth.Authenticate(ctx, "alice@x.com", "password123")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.ValidateToken(ctx, "ghost@x.com", token), ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.ids.Register(ctx, "alice@x.com", "password123", "Alice")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.ValidateToken(ctx, "alice@x.com", "not-a-token"), ErrInvalidToken)
	assert.ErrorIs(t, f.auth.ValidateToken(ctx, "alice@x.com", ""), ErrInvalidToken)
}

func TestValidateToken_InvalidatedByCredentialUpdate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.ids.Register(ctx, "alice@x.com", "password123", "Alice")
	require.NoError(t, err)

	token, err := f.auth.Authenticate(ctx, "alice@x.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.auth.ValidateToken(ctx, "alice@x.com", token))

	// Rotating the credential changes the verifier fingerprint, which must
	// invalidate previously issued tokens without any revocation list.
	ok, err := f.ids.Update(ctx, "alice@x.com", "newpassword456", "Alice")
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, f.auth.ValidateToken(ctx, "alice@x.com", token), ErrInvalidToken)

	fresh, err := f.auth.Authenticate(ctx, "alice@x.com", "newpassword456")
	require.NoError(t, err)
	assert.NoError(t, f.auth.ValidateToken(ctx, "alice@x.com", fresh))
}
