package models

import (
	"time"
)

// User represents a reader or author on the platform. Only the wallet
// fields are owned by this service; profile fields are managed elsewhere.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	WalletCoins int64     `gorm:"not null;default:0" json:"wallet_coins"`
	IsBlocked   bool      `json:"is_blocked"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
