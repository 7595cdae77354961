package database

import (
	"errors"

	"gorm.io/gorm"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/models"
)

// CreateListing persists the listing together with its image rows in one
// transaction, so a failed image insert never leaves a bare listing behind.
// Returns the new listing id.
func (d *Database) CreateListing(listing *models.Listing, images []models.ListingImage) (int64, error) {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ListingID = listing.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, translateError(err)
	}
	return listing.ID, nil
}

// GetListing returns the listing with its images in sort order.
func (d *Database) GetListing(id int64) (*models.Listing, error) {
	var listing models.Listing
	err := d.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("listing")
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListListings applies the filter and orders featured listings first,
// newest first within each group.
func (d *Database) ListListings(filter models.ListingFilter) ([]models.Listing, error) {
	query := d.db.Model(&models.Listing{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.HousingType != "" {
		query = query.Where("housing_type = ?", filter.HousingType)
	}
	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var listings []models.Listing
	err := query.Order("is_featured DESC, created_at DESC").Find(&listings).Error
	return listings, err
}

// ListListingsByOwner returns every listing of the user regardless of
// status, so owners can see their own pending and rejected submissions.
func (d *Database) ListListingsByOwner(userID int64) ([]models.Listing, error) {
	var listings []models.Listing
	err := d.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (d *Database) UpdateListingStatus(id int64, status string) error {
	res := d.db.Model(&models.Listing{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("listing")
	}
	return nil
}

func (d *Database) SetListingFeatured(id int64, featured bool) error {
	res := d.db.Model(&models.Listing{}).Where("id = ?", id).Update("is_featured", featured)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("listing")
	}
	return nil
}

// IncrementListingViews bumps the view counter by one. The increment runs
// in SQL so concurrent reads never lose an update.
func (d *Database) IncrementListingViews(id int64) error {
	res := d.db.Model(&models.Listing{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("listing")
	}
	return nil
}

// DeleteListing removes the listing and its images atomically, images
// first to satisfy the foreign key.
func (d *Database) DeleteListing(id int64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.First(&listing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("listing")
			}
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&listing).Error
	})
}

// CountListingImages reports how many image rows reference the listing.
func (d *Database) CountListingImages(listingID int64) (int64, error) {
	var count int64
	err := d.db.Model(&models.ListingImage{}).Where("listing_id = ?", listingID).Count(&count).Error
	return count, err
}
