package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expires, err := tm.GenerateAccessToken(42, "m@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(42), claims.ManagerID)
	assert.Equal(t, "m@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestTokenManager_Rejects(t *testing.T) {
	t.Run("Expired", func(t *testing.T) {
		tm := &tokenManager{secret: []byte(testSecret), ttl: time.Minute, now: func() time.Time {
			return time.Now().Add(-2 * time.Hour)
		}}
		token, _, err := tm.GenerateAccessToken(1, "")
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, _, err := NewTokenManager(testSecret, time.Hour).GenerateAccessToken(1, "")
		require.NoError(t, err)

		_, err = NewTokenManager("another-secret-another-secret-xx", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := NewTokenManager(testSecret, time.Hour).ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
