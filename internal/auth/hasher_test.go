package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherHashAndVerify(t *testing.T) {
	h := NewHasher(4) // low cost to keep the test fast

	digest, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", digest)

	assert.True(t, h.Verify(digest, "s3cret-password"))
	assert.False(t, h.Verify(digest, "wrong-password"))
}

func TestNewHasherClampsInvalidCost(t *testing.T) {
	h := NewHasher(99)
	assert.Equal(t, DefaultHashCost, h.cost)

	h = NewHasher(0)
	assert.Equal(t, DefaultHashCost, h.cost)
}

func TestHashed(t *testing.T) {
	h := NewHasher(4)
	digest, err := h.Hash("password")
	require.NoError(t, err)

	assert.True(t, Hashed(digest))
	assert.False(t, Hashed("password"))
	assert.False(t, Hashed(""))
}
