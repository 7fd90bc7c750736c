package auth_test

import (
	"strings"
	"testing"

	"todoTracker/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPasswordHasher_HashAndVerify тестирует цикл хэширования
func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "correct horse")

	assert.True(t, hasher.Verify("correct horse battery staple", hash))
	assert.False(t, hasher.Verify("wrong password", hash))
	assert.False(t, hasher.Verify("", hash))
}

// TestPasswordHasher_UniqueSalt тестирует, что хэши одного пароля различаются
func TestPasswordHasher_UniqueSalt(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

// TestPasswordHasher_OverlongPassword тестирует ограничение bcrypt в 72 байта
func TestPasswordHasher_OverlongPassword(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	_, err := hasher.Hash(strings.Repeat("x", 100))
	assert.Error(t, err)
}
