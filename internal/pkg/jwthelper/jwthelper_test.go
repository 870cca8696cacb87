package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("0123456789abcdef0123")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(key, "u1", "firefox")
	require.NoError(t, err)

	claims, err := ParseToken(key, token, "firefox")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	token, err := GenerateToken(key, "u1", "firefox")
	require.NoError(t, err)

	_, err = ParseToken([]byte("another-key-entirely"), token, "firefox")
	assert.Error(t, err)

	_, err = ParseToken(key, token, "curl")
	assert.ErrorIs(t, err, ErrUserAgentMismatch)

	_, err = ParseToken(key, "not-a-token", "firefox")
	assert.Error(t, err)
}
