package models

import "time"

type News struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Summary     string    `gorm:"type:text" json:"summary"`
	Body        string    `gorm:"type:text" json:"body"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (News) TableName() string {
	return "news"
}
