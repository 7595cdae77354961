package database

import (
	"errors"

	"gorm.io/gorm"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/models"
)

func (d *Database) CreateNews(item *models.News) error {
	return d.db.Create(item).Error
}

func (d *Database) GetNews(id int64) (*models.News, error) {
	var item models.News
	err := d.db.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("news")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d *Database) ListNews(publishedOnly bool) ([]models.News, error) {
	query := d.db.Model(&models.News{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var items []models.News
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (d *Database) UpdateNews(item *models.News) error {
	return d.db.Save(item).Error
}

func (d *Database) DeleteNews(id int64) error {
	res := d.db.Delete(&models.News{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("news")
	}
	return nil
}
