package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(7, RoleVendor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, RoleVendor, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("a", time.Hour).GenerateToken(7, RoleVendor)
	require.NoError(t, err)

	_, err = New("b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	issued := New("secret", time.Minute)
	issued.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issued.GenerateToken(7, RoleVendor)
	require.NoError(t, err)

	_, err = New("secret", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := New("secret", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
