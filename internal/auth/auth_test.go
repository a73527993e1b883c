package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgate/docgate-go/internal/auth"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, auth.CheckPasswordHash("hunter2", hash))
	assert.False(t, auth.CheckPasswordHash("wrong", hash))
	assert.False(t, auth.CheckPasswordHash("hunter2", "not-a-hash"))
}

func TestGeneratePassword(t *testing.T) {
	a := auth.GeneratePassword(12)
	b := auth.GeneratePassword(12)
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b, "two generated passwords should differ")
}
