package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The secret is loaded from .env in main long after this package
// initializes, so signing must pick up the environment at call time.
func TestTokenSignedWithSecretSetAfterInit(t *testing.T) {
	t.Setenv("JWT_SECRET", "late-loaded-secret")

	token, err := GenerateToken("64b1f0c2a1b2c3d4e5f60718", "ada@example.com")
	require.NoError(t, err)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("late-loaded-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "64b1f0c2a1b2c3d4e5f60718", claims.UserID)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("64b1f0c2a1b2c3d4e5f60718", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b1f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestGetUserIDFromToken(t *testing.T) {
	token, err := GenerateToken("64b1f0c2a1b2c3d4e5f60718", "ada@example.com")
	require.NoError(t, err)

	id, err := GetUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b1f0c2a1b2c3d4e5f60718", id)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = ValidateToken("")
	assert.Error(t, err)
}
