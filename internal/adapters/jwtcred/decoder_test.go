package jwtcred

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/internal/domain"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-secret"))
	require.NoError(t, err)
	return token
}

func TestDecode_ReadsIdentityAndExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token := sign(t, jwt.MapClaims{
		"sub":   "42",
		"email": "ada@example.com",
		"name":  "Ada",
		"exp":   exp.Unix(),
	})

	claims, err := NewDecoder().Decode(token)

	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.DisplayName)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, exp.Equal(*claims.ExpiresAt))
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"sub":   "1",
		"email": "old@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := NewDecoder().Decode(token)

	require.NoError(t, err)
	assert.True(t, claims.Expired(time.Now()))
}

func TestDecode_NoExpiry(t *testing.T) {
	claims, err := NewDecoder().Decode(sign(t, jwt.MapClaims{"sub": "1"}))

	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.False(t, claims.Expired(time.Now()))
}

func TestDecode_Errors(t *testing.T) {
	_, err := NewDecoder().Decode("")
	assert.ErrorIs(t, err, domain.ErrEmptyCredential)

	_, err = NewDecoder().Decode("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrMalformedCredential)
}
