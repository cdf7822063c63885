package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	tok, err := GenerateJWT(7, "leader@example.com", "leader", testSecret, DefaultExpiry)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ValidateJWT(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "leader@example.com", claims.Email)
	assert.Equal(t, "leader", claims.Role)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	tok, err := GenerateJWT(7, "leader@example.com", "leader", testSecret, DefaultExpiry)
	require.NoError(t, err)

	_, err = ValidateJWT(tok, "some-other-secret")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	tok, err := GenerateJWT(7, "leader@example.com", "leader", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(tok, testSecret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestGenerateJWT_EmptySecret(t *testing.T) {
	_, err := GenerateJWT(7, "leader@example.com", "leader", "", DefaultExpiry)
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", testSecret)
	assert.Error(t, err)
}
