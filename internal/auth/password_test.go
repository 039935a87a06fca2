package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longpass1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "longpass1", hash)
	assert.True(t, CheckPassword("longpass1", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("longpass1", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("longpass1", bcrypt.MinCost)
	require.NoError(t, err)

	// Per-call random salt means two hashes of the same input differ.
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("longpass1", h1))
	assert.True(t, CheckPassword("longpass1", h2))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longpass1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CheckPassword("longpass2", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("longpass1", "not-a-bcrypt-hash"))
}
