package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier("test-secret")

	valid, err := v.Issue("user-42", time.Hour)
	require.NoError(t, err)

	expired, err := v.Issue("user-42", -time.Hour)
	require.NoError(t, err)

	foreign, err := NewVerifier("other-secret").Issue("user-42", time.Hour)
	require.NoError(t, err)

	subOnly, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user_id": "user-42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected string
		err      error
	}{
		{name: "valid token", token: valid, expected: "user-42"},
		{name: "bearer prefix", token: "Bearer " + valid, expected: "user-42"},
		{name: "subject claim", token: subOnly, expected: "user-7"},
		{name: "expired token", token: expired, err: ErrExpiredToken},
		{name: "wrong secret", token: foreign, err: ErrInvalidToken},
		{name: "missing user", token: noUser, err: ErrInvalidToken},
		{name: "garbage", token: "not-a-token", err: ErrInvalidToken},
		{name: "other HMAC algorithm", token: hs512, err: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(tt.token)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id.UserID)
		})
	}
}

func TestIdentityFromToken(t *testing.T) {
	token, err := NewVerifier("server-secret").Issue("user-42", time.Hour)
	require.NoError(t, err)

	id, err := IdentityFromToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", id.UserID)
	assert.Equal(t, token, id.Token)

	_, err = IdentityFromToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
