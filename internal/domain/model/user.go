package model

import "time"

type UserStatus string

const (
	UserStatusActive         UserStatus = "active"
	UserStatusPendingApprove UserStatus = "pending_approve"
	UserStatusBanned         UserStatus = "banned"
)

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FullName     string     `gorm:"type:varchar(255);not null" json:"fullName"`
	Phone        string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	AvatarURL    string     `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	RoleID       Role       `gorm:"column:role_id;not null;default:3;index" json:"roleId"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	IsVerified   bool       `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
