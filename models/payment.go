package models

import (
	"time"
)

// Payment is one top-up attempt against the external gateway, keyed by the
// orderId we generate. A payment moves pending -> completed or
// pending -> failed exactly once; the transition is applied only by the
// IPN handler.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `json:"-" gorm:"foreignKey:UserID"`
	OrderID       string    `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount        int64     `gorm:"not null" json:"amount"` // VND
	Method        string    `gorm:"not null" json:"method"` // momo, bank
	Status        string    `gorm:"not null;default:pending;index" json:"status"` // pending, completed, failed
	TransactionID string    `json:"transaction_id,omitempty"` // gateway-assigned, set on completion
	ResultCode    *int      `json:"result_code,omitempty"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaymentMethod constants
const (
	PaymentMethodMomo = "momo"
	PaymentMethodBank = "bank"
)

// PaymentStatus constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)
