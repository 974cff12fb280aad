package model

import "time"

type FacilityStatus string

const (
	FacilityStatusActive   FacilityStatus = "active"
	FacilityStatusInactive FacilityStatus = "inactive"
	FacilityStatusPending  FacilityStatus = "pending"
)

type Sport struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	IconURL string `gorm:"type:varchar(500)" json:"iconUrl,omitempty"`
}

// 施設（複数のコートを持つ）
type Facility struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     int64          `gorm:"not null;index" json:"ownerId"`
	SportID     int64          `gorm:"not null;index" json:"sportId"`
	Sport       *Sport         `gorm:"foreignKey:SportID" json:"sport,omitempty"`
	Name        string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Address     string         `gorm:"type:varchar(500);not null" json:"address"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	District    string         `gorm:"type:varchar(100);index" json:"district,omitempty"`
	City        string         `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	OpenTime    string         `gorm:"type:varchar(5)" json:"openTime,omitempty"`
	CloseTime   string         `gorm:"type:varchar(5)" json:"closeTime,omitempty"`
	Status      FacilityStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	Images  []FacilityImage `gorm:"foreignKey:FacilityID" json:"images,omitempty"`
	Fields  []Field         `gorm:"foreignKey:FacilityID" json:"fields,omitempty"`
	Reviews []Review        `gorm:"foreignKey:FacilityID" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

type FacilityImage struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID  int64  `gorm:"not null;index" json:"facilityId"`
	ImageURL    string `gorm:"type:varchar(500);not null" json:"imageUrl"`
	IsThumbnail bool   `gorm:"not null;default:false" json:"isThumbnail"`
}
