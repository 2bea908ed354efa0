package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleValidator(t *testing.T) {
	v := Single{Username: "anonymous", Password: "anonymous"}

	assert.True(t, v.Authenticate("anonymous", "anonymous"))
	assert.False(t, v.Authenticate("anonymous", "wrong"))
	assert.False(t, v.Authenticate("other", "anonymous"))
	assert.False(t, v.Authenticate("", ""))
}

func TestStoreAuthenticate(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add("alice", "s3cret"))

	assert.True(t, store.Authenticate("alice", "s3cret"))
	assert.False(t, store.Authenticate("alice", "S3cret"))
	assert.False(t, store.Authenticate("bob", "s3cret"))
}

func TestStoreAddHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash, "hash must not be the plaintext")

	store := NewStore()
	store.AddHash("carol", hash)

	assert.True(t, store.Authenticate("carol", "hunter2"))
	assert.False(t, store.Authenticate("carol", "hunter3"))
}

func TestStoreReplacesEntry(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add("alice", "old"))
	require.NoError(t, store.Add("alice", "new"))

	assert.False(t, store.Authenticate("alice", "old"))
	assert.True(t, store.Authenticate("alice", "new"))
}
