package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)

	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.NoError(t, CheckPassword("secret123", hash))
}

func TestHashPassword_TooLong(t *testing.T) {
	// bcrypt caps input at 72 bytes.
	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	err = CheckPassword("wrong-password", hash)

	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	hash2, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}
