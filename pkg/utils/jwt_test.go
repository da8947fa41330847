package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "64f0c3e2a1b2c3d4e5f60718", "Anna", "anna@example.com", "ADMIN", "sv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, "64f0c3e2a1b2c3d4e5f60718", claims.ID)
	assert.Equal(t, "Anna", claims.Name)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "sv", claims.PreferredLanguage)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "id", "Bo", "bo@example.com", "USER", "en")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	token, err := GenerateToken(testSecret, "id", "Bo", "bo@example.com", "USER", "en")
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, TokenDuration, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}
