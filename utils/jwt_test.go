package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken("user-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenInvalid(t *testing.T) {
	InitJWT("test-secret")

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenWrongKey(t *testing.T) {
	InitJWT("first-secret")
	token, err := GenerateToken("user-1", "member")
	require.NoError(t, err)

	InitJWT("second-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
