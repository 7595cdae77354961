package auth

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"zhilfond/server/internal/database"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword is strictly a verification; it never mutates stored
// credentials. Plaintext legacy rows are handled by the offline sweep.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// MigratePlaintextPasswords rehashes every account still storing a
// plaintext secret. One-time pass, run via the -migrate-passwords flag.
func MigratePlaintextPasswords(db *database.Database, logger *logrus.Logger) (int, error) {
	users, err := db.ListUsersWithPlaintextPasswords()
	if err != nil {
		return 0, err
	}

	migrated := 0
	for i := range users {
		hash, err := HashPassword(users[i].PasswordHash)
		if err != nil {
			return migrated, err
		}
		users[i].PasswordHash = hash
		if err := db.UpdateUser(&users[i]); err != nil {
			return migrated, err
		}
		migrated++
		logger.WithField("user_id", users[i].ID).Info("Rehashed legacy password")
	}
	return migrated, nil
}
