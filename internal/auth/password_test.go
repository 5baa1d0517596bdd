package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := PasswordHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, h.Verify(hash, "password123"))
	assert.False(t, h.Verify(hash, "password124"))
	assert.False(t, h.Verify("not-a-hash", "password123"))

	again, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes should be salted")
}

func TestPasswordHasherRejectsBadCost(t *testing.T) {
	_, err := PasswordHasher{Cost: bcrypt.MaxCost + 1}.Hash("password123")
	assert.Error(t, err)
}

func TestHashPasswordDefaults(t *testing.T) {
	hash, err := HashPassword("longpass1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.True(t, VerifyPassword(hash, "longpass1"))
	assert.False(t, VerifyPassword(hash, "longpass2"))
}
