package model

import "time"

type FieldStatus string

const (
	FieldStatusActive   FieldStatus = "active"
	FieldStatusInactive FieldStatus = "inactive"
)

// 施設内の1面（予約単位）
type Field struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID  int64       `gorm:"not null;index" json:"facilityId"`
	Facility    *Facility   `gorm:"foreignKey:FacilityID" json:"-"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	Status      FieldStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	Pricings []FieldPricing `gorm:"foreignKey:FieldID" json:"pricings,omitempty"`
	Bookings []Booking      `gorm:"foreignKey:FieldID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// 曜日区分（平日/週末）ごとの時間帯料金。時刻はHH:MM（日付なし）
type FieldPricing struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FieldID      int64  `gorm:"not null;index" json:"fieldId"`
	StartTime    string `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime      string `gorm:"type:varchar(5);not null" json:"endTime"`
	PricePerHour int64  `gorm:"not null" json:"pricePerHour"`
	IsWeekend    bool   `gorm:"not null;default:false" json:"isWeekend"`
}
