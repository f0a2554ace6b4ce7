package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/transfer"
)

var alice = transfer.Identity{CaregiverID: "cg-alice", Email: "alice@example.com", Name: "Alice"}

func TestTokens_RoundTrip(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	tokens := NewTokens("secret", clk)

	raw, err := tokens.Issue(alice)
	require.NoError(t, err)

	got, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestTokens_Rejects(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	tokens := NewTokens("secret", clk)
	raw, err := tokens.Issue(alice)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := clock.NewManual(clk.Now())
		later.Advance(DefaultTokenTTL + time.Minute)
		_, err := NewTokens("secret", later).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokens("other", clk).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no user id", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour))}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{UserID: "cg-alice", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour))}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	got, ok := IdentityFrom(WithIdentity(context.Background(), alice))
	require.True(t, ok)
	assert.Equal(t, alice, got)
}
