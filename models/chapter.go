package models

import (
	"time"
)

// Chapter is a single installment of a story. VIP chapters carry a coin
// price and must be unlocked through the wallet before reading.
type Chapter struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StoryID    uint      `gorm:"not null;index" json:"story_id"`
	Story      Story     `json:"-" gorm:"foreignKey:StoryID"`
	Title      string    `gorm:"not null" json:"title"`
	Number     int       `gorm:"not null" json:"number"`
	Content    string    `json:"content,omitempty"`
	IsVip      bool      `gorm:"default:false" json:"is_vip"`
	PriceCoins int64     `gorm:"default:0" json:"price_coins"`
	Status     string    `gorm:"default:draft" json:"status"` // draft, published, removed
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChapterStatus constants
const (
	ChapterStatusDraft     = "draft"
	ChapterStatusPublished = "published"
	ChapterStatusRemoved   = "removed"
)
