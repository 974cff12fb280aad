package model

import "time"

type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID int64     `gorm:"not null;index" json:"facilityId"`
	UserID     int64     `gorm:"not null;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index" json:"createdAt"`
}
