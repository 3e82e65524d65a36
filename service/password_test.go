package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	password := "Passw0rd1"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Compare(hash, password))
	assert.False(t, hasher.Compare(hash, "Passw0rd2"))
	assert.False(t, hasher.Compare("not-a-bcrypt-hash", password))

	again, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash carries its own salt")
}
