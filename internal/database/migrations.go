package database

import "zhilfond/server/internal/models"

func (d *Database) MigrateSchema() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.ListingImage{},
		&models.News{},
	)
}
