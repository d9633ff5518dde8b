// internal/auth/session_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenExpireTime(t *testing.T) {
	for _, v := range []string{"", "0", "never"} {
		d, err := ParseTokenExpireTime(v)
		require.NoError(t, err)
		assert.Zero(t, d)
	}

	d, err := ParseTokenExpireTime("72h")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d)

	_, err = ParseTokenExpireTime("soon")
	assert.Error(t, err)
	_, err = ParseTokenExpireTime("-1h")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init("1h"))
	id := uuid.New()

	token, err := CreateJWT(id)
	require.NoError(t, err)

	got, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAuthenticateRejectsForeignTokens(t *testing.T) {
	require.NoError(t, Init("never"))
	token, err := CreateJWT(uuid.New())
	require.NoError(t, err)

	// a restart rotates the keys
	require.NoError(t, Init("never"))
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := hs.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = AuthenticateJWT(signed)
	assert.Error(t, err)

	_, err = AuthenticateJWT("garbage")
	assert.Error(t, err)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	require.NoError(t, Init("never"))
	expired := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString(privateKey)
	require.NoError(t, err)

	_, err = AuthenticateJWT(signed)
	assert.Error(t, err)
}
