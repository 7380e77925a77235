package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, p := range []string{"secret", "pässwörd", "a much longer passphrase with spaces"} {
		hash, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)

		ok, err := h.Verify(p, hash)
		require.NoError(t, err)
		assert.True(t, ok, p)

		ok, err = h.Verify(p+"x", hash)
		require.NoError(t, err)
		assert.False(t, ok, p)
	}
}

func TestBcryptHasher_FreshSaltPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	h1, err := h.Hash("secret")
	require.NoError(t, err)
	h2, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	for _, hash := range []string{h1, h2} {
		ok, err := h.Verify("secret", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestBcryptHasher_MalformedHashIsAnError(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	ok, err := h.Verify("secret", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestBcryptHasher_RejectsInputBeyondBcryptLimit(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	stored := strings.Repeat("p", maxPasswordBytes)

	hash, err := h.Hash(stored)
	require.NoError(t, err)

	ok, err := h.Verify(stored, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// bcrypt would compare only the shared 72-byte prefix
	ok, err = h.Verify(stored+"whatever-else", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}
