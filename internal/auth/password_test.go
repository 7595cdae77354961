package auth

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhilfond/server/internal/database"
	"zhilfond/server/internal/models"
)

func TestMigratePlaintextPasswords(t *testing.T) {
	db, err := database.NewTestDB()
	require.NoError(t, err)

	hashed, err := HashPassword("already-hashed")
	require.NoError(t, err)

	legacy := &models.User{Email: "legacy@example.com", PasswordHash: "plain-password"}
	modern := &models.User{Email: "modern@example.com", PasswordHash: hashed}
	oauthOnly := &models.User{Email: "oauth@example.com", OAuthID: "ext-1"}
	require.NoError(t, db.CreateUser(legacy))
	require.NoError(t, db.CreateUser(modern))
	require.NoError(t, db.CreateUser(oauthOnly))

	migrated, err := MigratePlaintextPasswords(db, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, 1, migrated)

	got, err := db.GetUserByID(legacy.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "plain-password", got.PasswordHash)
	assert.True(t, CheckPassword(got.PasswordHash, "plain-password"))

	// Already-hashed and passwordless accounts are untouched.
	got, err = db.GetUserByID(modern.ID)
	require.NoError(t, err)
	assert.Equal(t, hashed, got.PasswordHash)

	// Running the sweep again finds nothing.
	migrated, err = MigratePlaintextPasswords(db, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)
}
