package models

import (
	"time"
)

// Story is a serialized work. The wallet core only reads it for the
// denormalized storyId on purchases.
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	AuthorID  uint      `json:"author_id"`
	Status    string    `json:"status"` // ongoing, completed, dropped
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
