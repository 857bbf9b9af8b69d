package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storynest-vn/storynest/config"
	"github.com/storynest-vn/storynest/models"
	"github.com/storynest-vn/storynest/utils"
)

// GetWalletBalance returns the user's current coin balance
func GetWalletBalance(c *gin.Context) {
	utils.LogInfo("GetWalletBalance called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	utils.Success(c, utils.MsgBalanceRetrieved, gin.H{
		"user_id": user.ID,
		"balance": user.WalletCoins,
	})
}

// GetWalletTransactions returns the user's ledger entries, newest first
func GetWalletTransactions(c *gin.Context) {
	utils.LogInfo("GetWalletTransactions called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c, utils.DefaultPaginationLimit, utils.MaxTransactionPageSize)
	utils.LogDebug("Listing transactions for user ID: %d - Page: %d, Limit: %d", user.ID, pagination.Page, pagination.Limit)

	var transactions []models.WalletTransaction
	var total int64
	if err := config.DB.Model(&models.WalletTransaction{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to count transactions", nil)
		return
	}

	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to get transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get transactions", nil)
		return
	}

	formatted := make([]gin.H, len(transactions))
	for i, txn := range transactions {
		formatted[i] = gin.H{
			"id":            txn.ID,
			"type":          txn.Type,
			"amount":        txn.AmountCoins,
			"balance_after": txn.BalanceAfter,
			"note":          txn.Note,
			"status":        txn.Status,
			"created_at":    txn.CreatedAt,
		}
	}

	utils.SuccessWithPagination(c, utils.MsgTransactionsRetrieved, gin.H{
		"transactions": formatted,
		"balance":      user.WalletCoins,
	}, total, pagination.Page, pagination.Limit)
}

// BuyCoinsRequest is the direct-credit input
type BuyCoinsRequest struct {
	Amount        int64  `json:"amount" binding:"required,min=1"`
	PaymentMethod string `json:"payment_method"`
}

// BuyCoins credits coins without a gateway round trip. Only available
// outside production or to admin users; real top-ups go through the
// payment gateway.
func BuyCoins(c *gin.Context) {
	utils.LogInfo("BuyCoins called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if appCfg.IsProduction() && !user.IsAdmin {
		utils.LogError("Direct coin credit refused in production for user ID: %d", user.ID)
		utils.Forbidden(c, "Direct coin purchase is not available")
		return
	}

	var req BuyCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid buy-coins request for user ID: %d: %v", user.ID, err)
		utils.AppErrorResponse(c, utils.InvalidAmountError(utils.ErrInvalidCoinAmount))
		return
	}

	method := req.PaymentMethod
	if method == "" {
		method = "test"
	}
	note := fmt.Sprintf("Topped up %d coins via %s", req.Amount, method)

	updated, entry, err := adjustCoins(config.DB, user.ID, req.Amount, models.TransactionTypeTopup, note, nil)
	if err != nil {
		utils.LogError("Failed to credit coins for user ID: %d: %v", user.ID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	utils.LogInfo("Credited %d coins to user ID: %d, new balance: %d", req.Amount, user.ID, updated.WalletCoins)

	utils.Success(c, utils.MsgCoinsAdded, gin.H{
		"new_balance": updated.WalletCoins,
		"transaction": gin.H{
			"id":            entry.ID,
			"type":          entry.Type,
			"amount":        entry.AmountCoins,
			"balance_after": entry.BalanceAfter,
			"created_at":    entry.CreatedAt,
		},
	})
}

// CheckPurchase reports whether the user already owns a chapter
func CheckPurchase(c *gin.Context) {
	utils.LogInfo("CheckPurchase called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	chapterID, err := strconv.ParseUint(c.Param("chapterId"), 10, 32)
	if err != nil {
		utils.LogError("Invalid chapter ID format: %v", err)
		utils.BadRequest(c, "Invalid chapter ID", nil)
		return
	}

	owned, err := hasCompletedPurchase(config.DB, user.ID, uint(chapterID))
	if err != nil {
		utils.LogError("Failed to check purchase for user ID: %d, chapter ID: %d: %v", user.ID, chapterID, err)
		utils.InternalServerError(c, "Failed to check purchase", nil)
		return
	}

	utils.Success(c, "Purchase status retrieved", gin.H{
		"chapter_id": chapterID,
		"purchased":  owned,
	})
}

// UnlockChapter spends coins to permanently unlock a VIP chapter
func UnlockChapter(c *gin.Context) {
	utils.LogInfo("UnlockChapter called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	chapterID, err := strconv.ParseUint(c.Param("chapterId"), 10, 32)
	if err != nil {
		utils.LogError("Invalid chapter ID format: %v", err)
		utils.BadRequest(c, "Invalid chapter ID", nil)
		return
	}
	utils.LogInfo("Processing chapter unlock - User ID: %d, Chapter ID: %d", user.ID, chapterID)

	updated, chapter, entry, err := unlockChapter(config.DB, user.ID, uint(chapterID))
	if err != nil {
		utils.LogError("Chapter unlock failed - User ID: %d, Chapter ID: %d: %v", user.ID, chapterID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	utils.LogInfo("Chapter %d unlocked by user ID: %d, new balance: %d", chapter.ID, user.ID, updated.WalletCoins)

	utils.Success(c, utils.MsgChapterUnlocked, gin.H{
		"new_balance": updated.WalletCoins,
		"chapter": gin.H{
			"id":    chapter.ID,
			"title": chapter.Title,
			"price": chapter.PriceCoins,
		},
		"transaction": gin.H{
			"id":            entry.ID,
			"amount":        entry.AmountCoins,
			"balance_after": entry.BalanceAfter,
		},
	})
}

// currentUser pulls the authenticated user out of the gin context.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}
