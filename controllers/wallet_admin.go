package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storynest-vn/storynest/config"
	"github.com/storynest-vn/storynest/models"
	"github.com/storynest-vn/storynest/utils"
)

// AdjustWalletRequest is the admin-side balance correction input. Amount
// is signed: positive credits, negative debits.
type AdjustWalletRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Note   string `json:"note" binding:"required"`
}

// AdjustUserWallet applies a manual coin correction to a user's wallet.
// Goes through the same locked credit path as every other mutation, so the
// ledger stays complete and the balance can never go negative.
func AdjustUserWallet(c *gin.Context) {
	utils.LogInfo("AdjustUserWallet called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	if !admin.IsAdmin {
		utils.LogError("Non-admin user attempted wallet adjustment: %d", admin.ID)
		utils.Forbidden(c, "Admin access required")
		return
	}

	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		utils.LogError("Invalid user ID format: %v", err)
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var req AdjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid adjustment request: %v", err)
		utils.BadRequest(c, "Amount and note are required", err.Error())
		return
	}
	if req.Amount == 0 {
		utils.BadRequest(c, utils.ErrInvalidCoinAmount, nil)
		return
	}

	note := fmt.Sprintf("Admin adjustment by %s: %s", admin.Username, req.Note)
	user, entry, err := adjustCoins(config.DB, uint(userID), req.Amount, models.TransactionTypeAdminAdjust, note, nil)
	if err != nil {
		utils.LogError("Failed to adjust wallet for user ID: %d: %v", userID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	utils.LogInfo("Admin %d adjusted wallet of user %d by %d coins, new balance: %d", admin.ID, userID, req.Amount, user.WalletCoins)

	utils.Success(c, "Wallet adjusted successfully", gin.H{
		"user_id":     user.ID,
		"new_balance": user.WalletCoins,
		"transaction": gin.H{
			"id":            entry.ID,
			"type":          entry.Type,
			"amount":        entry.AmountCoins,
			"balance_after": entry.BalanceAfter,
			"note":          entry.Note,
		},
	})
}

// ListAllWalletTransactions lists ledger entries across users for audit,
// newest first, optionally filtered by user_id.
func ListAllWalletTransactions(c *gin.Context) {
	utils.LogInfo("ListAllWalletTransactions called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	if !admin.IsAdmin {
		utils.LogError("Non-admin user attempted ledger access: %d", admin.ID)
		utils.Forbidden(c, "Admin access required")
		return
	}

	pagination := utils.NewPagination(c, utils.DefaultPaginationLimit, utils.MaxTransactionPageSize)

	query := config.DB.Model(&models.WalletTransaction{})
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			utils.BadRequest(c, "Invalid user ID filter", nil)
			return
		}
		query = query.Where("user_id = ?", uint(userID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count ledger entries: %v", err)
		utils.InternalServerError(c, "Failed to count transactions", nil)
		return
	}

	var transactions []models.WalletTransaction
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to list ledger entries: %v", err)
		utils.InternalServerError(c, "Failed to get transactions", nil)
		return
	}

	formatted := make([]gin.H, len(transactions))
	for i, txn := range transactions {
		formatted[i] = gin.H{
			"id":                 txn.ID,
			"user_id":            txn.UserID,
			"type":               txn.Type,
			"amount":             txn.AmountCoins,
			"balance_after":      txn.BalanceAfter,
			"related_payment_id": txn.RelatedPaymentID,
			"note":               txn.Note,
			"status":             txn.Status,
			"created_at":         txn.CreatedAt,
		}
	}

	utils.SuccessWithPagination(c, utils.MsgTransactionsRetrieved, gin.H{
		"transactions": formatted,
	}, total, pagination.Page, pagination.Limit)
}
