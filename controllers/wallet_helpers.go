package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/storynest-vn/storynest/models"
	"github.com/storynest-vn/storynest/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The helpers in this file are the only code allowed to mutate
// users.wallet_coins. Every mutation locks the user row, persists the new
// balance and appends the matching ledger entry inside one database
// transaction, so a crash can never leave a balance change without its
// ledger row or vice versa.

// getUserForUpdate loads the user row with a row lock, serializing
// concurrent balance mutations for the same user.
func getUserForUpdate(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError(utils.ErrUserNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// appendLedgerEntry writes one immutable WalletTransaction row.
func appendLedgerEntry(tx *gorm.DB, userID uint, txType string, amount, balanceAfter int64, relatedPaymentID *uint, note string) (*models.WalletTransaction, error) {
	entry := models.WalletTransaction{
		UserID:           userID,
		Type:             txType,
		AmountCoins:      amount,
		BalanceAfter:     balanceAfter,
		RelatedPaymentID: relatedPaymentID,
		Note:             note,
		Status:           models.TransactionStatusCompleted,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// adjustCoinsTx applies a signed coin delta to the user's balance and
// appends the ledger entry. Must run inside a transaction. A debit that
// would push the balance below zero is rejected without mutation.
func adjustCoinsTx(tx *gorm.DB, userID uint, delta int64, txType, note string, relatedPaymentID *uint) (*models.User, *models.WalletTransaction, error) {
	user, err := getUserForUpdate(tx, userID)
	if err != nil {
		return nil, nil, err
	}

	newBalance := user.WalletCoins + delta
	if newBalance < 0 {
		return nil, nil, utils.InsufficientBalanceError(-delta, user.WalletCoins)
	}

	user.WalletCoins = newBalance
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("wallet_coins", newBalance).Error; err != nil {
		return nil, nil, err
	}

	entry, err := appendLedgerEntry(tx, userID, txType, delta, newBalance, relatedPaymentID, note)
	if err != nil {
		return nil, nil, err
	}

	return user, entry, nil
}

// adjustCoins wraps adjustCoinsTx in its own transaction.
func adjustCoins(db *gorm.DB, userID uint, delta int64, txType, note string, relatedPaymentID *uint) (*models.User, *models.WalletTransaction, error) {
	var user *models.User
	var entry *models.WalletTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		user, entry, txErr = adjustCoinsTx(tx, userID, delta, txType, note, relatedPaymentID)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	return user, entry, nil
}

// hasCompletedPurchase reports whether the user already owns the chapter.
func hasCompletedPurchase(db *gorm.DB, userID, chapterID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Purchase{}).
		Where("user_id = ? AND chapter_id = ? AND status = ?", userID, chapterID, models.PurchaseStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// unlockChapter performs the VIP chapter purchase: re-check ownership,
// debit the wallet, record the purchase and append the ledger entry, all
// inside one transaction. Concurrent attempts for the same user serialize
// on the user row lock; the partial unique index on purchases catches
// anything that slips past the re-check.
func unlockChapter(db *gorm.DB, userID, chapterID uint) (*models.User, *models.Chapter, *models.WalletTransaction, error) {
	var user *models.User
	var chapter models.Chapter
	var entry *models.WalletTransaction

	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		user, txErr = getUserForUpdate(tx, userID)
		if txErr != nil {
			return txErr
		}

		if txErr = tx.First(&chapter, chapterID).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return utils.NotFoundError(utils.ErrChapterNotFound)
			}
			return txErr
		}

		if !chapter.IsVip {
			return utils.InvalidOperationError(utils.ErrChapterNotVip)
		}

		owned, txErr := hasCompletedPurchase(tx, userID, chapterID)
		if txErr != nil {
			return txErr
		}
		if owned {
			return utils.AlreadyPurchasedError()
		}

		if user.WalletCoins < chapter.PriceCoins {
			return utils.InsufficientBalanceError(chapter.PriceCoins, user.WalletCoins)
		}

		newBalance := user.WalletCoins - chapter.PriceCoins
		user.WalletCoins = newBalance
		if txErr = tx.Model(&models.User{}).Where("id = ?", userID).
			Update("wallet_coins", newBalance).Error; txErr != nil {
			return txErr
		}

		purchase := models.Purchase{
			UserID:     userID,
			ChapterID:  chapterID,
			StoryID:    chapter.StoryID,
			PriceCoins: chapter.PriceCoins,
			Method:     models.PurchaseMethodWallet,
			Status:     models.PurchaseStatusCompleted,
			PurchaseAt: time.Now(),
		}
		if txErr = tx.Create(&purchase).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrDuplicatedKey) {
				return utils.AlreadyPurchasedError()
			}
			return txErr
		}

		entry, txErr = appendLedgerEntry(tx, userID, models.TransactionTypePurchase,
			-chapter.PriceCoins, newBalance, nil, fmt.Sprintf("Unlocked chapter: %s", chapter.Title))
		return txErr
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return user, &chapter, entry, nil
}
