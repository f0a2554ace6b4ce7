// Package auth issues and verifies the session tokens that identify a caregiver.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/transfer"
)

const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	CookieName      = "auth-token"
	issuer          = "memora"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokens(secret string, clk clock.Clock) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: DefaultTokenTTL, clock: clk}
}

// Issue signs an HS256 token for the caregiver.
func (t *Tokens) Issue(id transfer.Identity) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		UserID: id.CaregiverID,
		Email:  id.Email,
		Name:   id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.CaregiverID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Verify(raw string) (transfer.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return transfer.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return transfer.Identity{}, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	return transfer.Identity{CaregiverID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id transfer.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (transfer.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(transfer.Identity)
	return id, ok
}
