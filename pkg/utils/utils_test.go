package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateTeamCode(t *testing.T) {
	code := GenerateTeamCode()
	require.Len(t, code, TeamCodeLength)
	for _, c := range code {
		ok := (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		assert.True(t, ok, "unexpected character %q in team code %s", c, code)
	}
}

func TestGenerateTeamCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateTeamCode()] = true
	}
	// 50 draws from a 36^6 space colliding down to one value would mean
	// the generator is broken, not unlucky.
	assert.Greater(t, len(seen), 1)
}
