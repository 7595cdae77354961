package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/models"
)

func (d *Database) CreateUser(user *models.User) error {
	err := d.db.Create(user).Error
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return apperrors.NewValidation("email", "already registered")
	}
	return translateError(err)
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	err := d.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByOAuthID(oauthID string) (*models.User, error) {
	var user models.User
	err := d.db.Where("oauth_id = ?", oauthID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateUser(user *models.User) error {
	return d.db.Save(user).Error
}

// ListUsersWithPlaintextPasswords returns accounts whose stored secret is
// not a bcrypt hash yet. Feeds the one-time migration sweep.
func (d *Database) ListUsersWithPlaintextPasswords() ([]models.User, error) {
	var users []models.User
	err := d.db.Where("password_hash <> '' AND password_hash NOT LIKE '$2%'").
		Find(&users).Error
	return users, err
}
