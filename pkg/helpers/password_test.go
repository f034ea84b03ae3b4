package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_SaltedOutput(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	// bcrypt salts per call, so identical plaintexts never hash identically
	assert.NotEqual(t, first, second)
	assert.True(t, CompareHashAndPassword(first, "secret1"))
	assert.True(t, CompareHashAndPassword(second, "secret1"))
	assert.False(t, CompareHashAndPassword(first, "secret2"))
}

func TestNewHasher_ClampsInvalidCost(t *testing.T) {
	h := NewHasher(-1)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
