package model

import "time"

// 生トークンは保存しない。TokenHashはSHA-256(hex)
type RefreshToken struct {
	ID         string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID     int64      `json:"userId" gorm:"not null;index"`
	TokenHash  string     `json:"-" gorm:"type:varchar(64);not null;uniqueIndex"`
	DeviceInfo string     `json:"deviceInfo" gorm:"type:varchar(255)"`
	IPAddress  string     `json:"ipAddress" gorm:"type:varchar(64)"`
	IsRevoked  bool       `json:"isRevoked" gorm:"not null;default:false;index"`
	RevokedAt  *time.Time `json:"revokedAt"`
	ExpiresAt  time.Time  `json:"expiresAt" gorm:"not null;index"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"not null"`
}

// 期限切れはレコードの有無ではなく時刻で判定する
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}
