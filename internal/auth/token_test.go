package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/auth"
)

const testSecret = "unit-test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.CreateAccessToken("user-123", testSecret, time.Minute)
	require.NoError(t, err)

	subject, err := auth.ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := auth.CreateAccessToken("user-123", testSecret, time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, "other-secret")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := auth.CreateAccessToken("user-123", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, testSecret)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := auth.ParseAccessToken(bad, testSecret)
		assert.Error(t, err, bad)
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := auth.HashPassword("Q16werty!23")
	require.NoError(t, err)
	assert.NotEqual(t, "Q16werty!23", hash)

	assert.True(t, auth.VerifyPassword(hash, "Q16werty!23"))
	assert.False(t, auth.VerifyPassword(hash, "q16werty!23"))
	assert.False(t, auth.VerifyPassword("", "Q16werty!23"))
}
