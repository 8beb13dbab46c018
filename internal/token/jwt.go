package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 6 * time.Hour

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Issuer signs and verifies HS256 access tokens with a single shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(secret []byte, ttl time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a signed token carrying c that expires after the issuer's TTL.
func (i *Issuer) Issue(c domain.Claims) (string, error) {
	if c.ID == "" {
		return "", errors.New("claims: empty user id")
	}
	now := i.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: c.ID,
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry before reading any claim. Every failure
// is reported as domain.ErrTokenInvalid.
func (i *Issuer) Verify(raw string) (domain.Claims, error) {
	var c claims
	t, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !t.Valid {
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	if c.UserID == "" {
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	return domain.Claims{ID: c.UserID}, nil
}
