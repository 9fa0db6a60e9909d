package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	again, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "bcrypt salts every hash")

	ok, err := CompareHashAndPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CompareHashAndPassword(hash, "battery staple")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = CompareHashAndPassword("not-a-bcrypt-hash", "x")
	require.Error(t, err)
	assert.False(t, ok)
}
