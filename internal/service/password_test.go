package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Abcdef12")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.NotContains(t, hash, "Abcdef12")

	assert.True(t, hasher.Verify("Abcdef12", hash))
	assert.False(t, hasher.Verify("wrong-password", hash))
}

func TestPasswordHasher_FreshSaltPerCall(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Abcdef12")
	require.NoError(t, err)
	second, err := hasher.Hash("Abcdef12")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("Abcdef12", first))
	assert.True(t, hasher.Verify("Abcdef12", second))
}

func TestPasswordHasher_MalformedHashIsMismatch(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	assert.False(t, hasher.Verify("Abcdef12", ""))
	assert.False(t, hasher.Verify("Abcdef12", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("Abcdef12", "$2a$10$garbage"))
}

func TestNewPasswordHasher_CostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default
	for _, cost := range []int{-1, 0, 100} {
		hasher := NewPasswordHasher(cost)
		assert.Equal(t, bcrypt.DefaultCost, hasher.cost, "cost %d", cost)
	}

	hasher := NewPasswordHasher(10)
	assert.Equal(t, 10, hasher.cost)
}
