package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Listing statuses. A listing is created as pending and only moves between
// states through the moderation actions.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusArchived = "archived"
)

// Recognized housing types.
var HousingTypes = []string{"room", "apartment", "hostel", "dormitory", "hotel", "temporary"}

// Price periods.
const (
	PeriodMonth = "month"
	PeriodDay   = "day"
)

// StringList is stored as a JSON array in a single text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

type Listing struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64      `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	HousingType string     `gorm:"type:varchar(32);not null;index" json:"housing_type"`
	District    string     `gorm:"type:varchar(128);not null;index" json:"district"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	Price       int        `gorm:"not null" json:"price"`
	PricePeriod string     `gorm:"type:varchar(16);default:month" json:"price_period"`
	Rooms       *int       `json:"rooms,omitempty"`
	Area        *float64   `json:"area,omitempty"`
	Floor       *int       `json:"floor,omitempty"`
	TotalFloors *int       `json:"total_floors,omitempty"`
	Amenities   StringList `gorm:"type:text" json:"amenities"`
	Phone       string     `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Email       string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Telegram    string     `gorm:"type:varchar(64)" json:"telegram,omitempty"`
	Status      string     `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	IsFeatured  bool       `gorm:"not null;default:false;index" json:"is_featured"`
	Views       int64      `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Images []ListingImage `gorm:"foreignKey:ListingID" json:"images,omitempty"`
	Owner  *User          `gorm:"foreignKey:UserID" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingImage holds the uploaded image bytes. SortOrder defines display
// order within a listing; the image at order 0 carries IsMain.
type ListingImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID int64  `gorm:"not null;index" json:"listing_id"`
	Data      []byte `gorm:"type:blob;not null" json:"-"`
	Filename  string `gorm:"type:varchar(255)" json:"filename"`
	IsMain    bool   `gorm:"not null;default:false" json:"is_main"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

// ListingFilter narrows the public listings query. Zero values mean
// "no filter" for that field.
type ListingFilter struct {
	Status      string
	HousingType string
	District    string
	MaxPrice    int
}
