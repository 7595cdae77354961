package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)

	token, err := issuer.Issue(42, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID, "tokens carry a JTI for revocation")
	assert.Equal(t, "42", claims.Subject)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)
	other := NewTokenIssuer("другой-secret", 24*time.Hour)

	token, err := issuer.Issue(42, models.RoleUser)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(42, models.RoleUser)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)

	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passphrase", hash)

	assert.True(t, CheckPassword(hash, "s3cret-passphrase"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
