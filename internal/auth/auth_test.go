package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "https://auth.example.com", time.Hour)

	token, err := m.Generate("user-123", "alice@example.com")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", "https://auth.example.com", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", "https://auth.example.com", time.Hour)
		token, err := other.Generate("user-123", "")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTManager("test-secret", "https://evil.example.com", time.Hour)
		token, err := other.Generate("user-123", "")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", "https://auth.example.com", -time.Minute)
		token, err := expired.Generate("user-123", "")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := m.Generate("", "anon@example.com")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "https://auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestInvitationToken(t *testing.T) {
	token, hash, err := NewInvitationToken()
	require.NoError(t, err)
	assert.Len(t, token, 43)
	assert.NotEqual(t, token, hash)

	assert.NoError(t, VerifyInvitationToken(hash, token))
	assert.ErrorIs(t, VerifyInvitationToken(hash, token+"x"), ErrInvalidInvitation)
	assert.ErrorIs(t, VerifyInvitationToken(hash, ""), ErrInvalidInvitation)

	other, _, err := NewInvitationToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
