package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
)

// 枠を占有しないステータス
var NonOccupyingBookingStatuses = []BookingStatus{BookingStatusCancelled, BookingStatusRejected}

func (s BookingStatus) Occupying() bool {
	for _, n := range NonOccupyingBookingStatuses {
		if s == n {
			return false
		}
	}
	return true
}

type Booking struct {
	ID         int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	FieldID    int64         `gorm:"not null;index" json:"fieldId"`
	UserID     int64         `gorm:"not null;index" json:"userId"`
	StartTime  time.Time     `gorm:"not null;index" json:"startTime"`
	EndTime    time.Time     `gorm:"not null;index" json:"endTime"`
	Status     BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalPrice int64         `gorm:"not null;default:0" json:"totalPrice"`
	CreatedAt  time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updatedAt"`
}
