package models

import (
	"time"
)

// WalletTransaction is one row of the append-only coin ledger. Rows are
// created inside the same database transaction as the balance change they
// describe and are never updated or deleted afterwards.
type WalletTransaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	User             User      `json:"-" gorm:"foreignKey:UserID"`
	Type             string    `gorm:"not null" json:"type"` // topup, purchase, bonus, admin_adjust
	AmountCoins      int64     `gorm:"not null" json:"amount_coins"`
	BalanceAfter     int64     `gorm:"not null" json:"balance_after"`
	RelatedPaymentID *uint     `json:"related_payment_id"`
	Note             string    `json:"note"`
	Status           string    `gorm:"not null" json:"status"` // pending, completed, failed
	CreatedAt        time.Time `json:"created_at"`
}

// TransactionType constants
const (
	TransactionTypeTopup       = "topup"
	TransactionTypePurchase    = "purchase"
	TransactionTypeBonus       = "bonus"
	TransactionTypeAdminAdjust = "admin_adjust"
)

// TransactionStatus constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)
