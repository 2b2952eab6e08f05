package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testPassword        = "SecurePassword123!"
	testWrongPassword   = "WrongPassword456!"
	testSpecialPassword = "P@ssw0rd!#$%"
)

func TestHashPassword_Success(t *testing.T) {
	// Arrange
	password := testPassword

	// Act
	hash, err := HashPassword(password)

	// Assert
	require.NoError(t, err, "HashPassword should not return error for valid password")
	assert.NotEmpty(t, hash, "Hash should not be empty")
	assert.NotEqual(t, password, hash, "Hash should be different from password")
	assert.Contains(t, hash, "$argon2id$", "Hash should contain Argon2id identifier")
}

func TestVerifyPassword_Correct(t *testing.T) {
	// Arrange
	hash, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	match, err := VerifyPassword(testPassword, hash)

	// Assert
	require.NoError(t, err, "VerifyPassword should not return error")
	assert.True(t, match, "Password should match its hash")
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	// Arrange
	hash, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	// Act
	match, err := VerifyPassword(testWrongPassword, hash)

	// Assert
	require.NoError(t, err, "VerifyPassword should not return error")
	assert.False(t, match, "Wrong password should not match hash")
}

func TestHashPassword_UniqueHashes(t *testing.T) {
	// Two hashes of the same password must differ: the salt is fresh per
	// call, so equal passwords across users never share a stored token.
	hash1, err1 := HashPassword(testPassword)
	hash2, err2 := HashPassword(testPassword)

	require.NoError(t, err1, "First HashPassword should not fail")
	require.NoError(t, err2, "Second HashPassword should not fail")
	assert.NotEqual(t, hash1, hash2, "Same password should produce different hashes due to unique salt")

	// Both still verify.
	match1, err := VerifyPassword(testPassword, hash1)
	require.NoError(t, err)
	assert.True(t, match1)

	match2, err := VerifyPassword(testPassword, hash2)
	require.NoError(t, err)
	assert.True(t, match2)
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	hash, err := HashPassword("")

	require.NoError(t, err, "Empty password is still a well-formed string input")
	assert.NotEmpty(t, hash)

	match, err := VerifyPassword("", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestHashPassword_SpecialCharacters(t *testing.T) {
	hash, err := HashPassword(testSpecialPassword)
	require.NoError(t, err)

	match, err := VerifyPassword(testSpecialPassword, hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	testCases := []struct {
		name string
		hash string
	}{
		{"Empty string", ""},
		{"Plain text", "not-a-hash"},
		{"Wrong part count", "$argon2id$v=19$m=65536"},
		{"Wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"Bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{"Bad digest encoding", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!"},
		{"Bad version", "$argon2id$v=12$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			match, err := VerifyPassword(testPassword, tc.hash)

			// Malformed tokens report an error and never match.
			assert.Error(t, err)
			assert.False(t, match)
		})
	}
}

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6, "PHC format has six segments")
	assert.Equal(t, "argon2id", parts[1])
	assert.Equal(t, "m=65536,t=1,p=4", parts[3])
}
