package models

import (
	"time"
)

// Purchase records a chapter unlock. PriceCoins is snapshotted at purchase
// time so later price edits never change what a reader was charged. The
// partial unique index on (user_id, chapter_id) for completed rows is
// created in config.InitDB; it is the anti-double-charge backstop.
type Purchase struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_purchases_user_chapter" json:"user_id"`
	User       User      `json:"-" gorm:"foreignKey:UserID"`
	ChapterID  uint      `gorm:"not null;index:idx_purchases_user_chapter" json:"chapter_id"`
	Chapter    Chapter   `json:"-" gorm:"foreignKey:ChapterID"`
	StoryID    uint      `gorm:"not null;index" json:"story_id"`
	PriceCoins int64     `gorm:"not null" json:"price_coins"`
	Method     string    `gorm:"not null;default:wallet" json:"method"`    // wallet, promo, gift
	Status     string    `gorm:"not null;default:completed" json:"status"` // completed, refunded
	PurchaseAt time.Time `json:"purchase_at"`
}

// PurchaseMethod constants
const (
	PurchaseMethodWallet = "wallet"
	PurchaseMethodPromo  = "promo"
	PurchaseMethodGift   = "gift"
)

// PurchaseStatus constants
const (
	PurchaseStatusCompleted = "completed"
	PurchaseStatusRefunded  = "refunded"
)
