package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the minimal identity envelope embedded in a bearer token.
type Claims struct {
	IdentityKey         string
	VerifierFingerprint string
	IssuedAt            time.Time
	ExpiresAt           time.Time
	Issuer              string
}

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(identityKey, verifierFingerprint string, now time.Time) (token string, exp time.Time, err error)
	Verify(token string, now time.Time) (Claims, error)
}

// tokenClaims is the wire shape of the signed claim set.
// "vfp" carries the keyed fingerprint of the stored verifier; the verifier
// itself never leaves the server.
type tokenClaims struct {
	jwt.RegisteredClaims
	VerifierFingerprint string `json:"vfp"`
}

type hmacTokenManager struct {
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration
	secret    []byte
}

// NewHMACTokenManager builds a TokenManager signing HS256 tokens with the
// configured server secret. Issuer and expiry rules are enforced on Verify.
func NewHMACTokenManager(cfg Config) (TokenManager, error) {
	if len(cfg.Secret) == 0 || cfg.Issuer == "" || cfg.TokenTTL <= 0 {
		return nil, ErrConfig
	}
	return &hmacTokenManager{
		issuer:    cfg.Issuer,
		ttl:       cfg.TokenTTL,
		clockSkew: cfg.ClockSkew,
		secret:    cfg.Secret,
	}, nil
}

func (m *hmacTokenManager) Issue(identityKey, verifierFingerprint string, now time.Time) (string, time.Time, error) {
	exp := now.Add(m.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   identityKey,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		VerifierFingerprint: verifierFingerprint,
	})

	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *hmacTokenManager) Verify(token string, now time.Time) (Claims, error) {
	claims := &tokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.Subject == "" || claims.VerifierFingerprint == "" {
		return Claims{}, ErrInvalidToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		IdentityKey:         claims.Subject,
		VerifierFingerprint: claims.VerifierFingerprint,
		IssuedAt:            claims.IssuedAt.Time,
		ExpiresAt:           claims.ExpiresAt.Time,
		Issuer:              claims.Issuer,
	}, nil
}
