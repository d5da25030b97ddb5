package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("cianuro")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("cianuro", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("estricnina", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	// Each hash gets a fresh salt.
	again, err := HashPassword("cianuro")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("cianuro", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("cianuro", "$argon2id$v=999$m=32768,t=3,p=2$c2FsdA$a2V5")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret", 0)

	tok, err := CreateToken(7, 3)
	require.NoError(t, err)

	pid, gid, err := VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pid)
	assert.Equal(t, int64(3), gid)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	Init("test-secret", 0)
	tok, err := CreateToken(7, 3)
	require.NoError(t, err)

	Init("another-secret", 0)
	_, _, err = VerifyToken(tok)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	Init("test-secret", 0)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"player_id": int64(7),
		"game_id":   int64(3),
		"exp":       time.Now().Add(-time.Minute).Unix(),
	})
	tok, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = VerifyToken(tok)
	assert.Error(t, err)
}
