package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storynest-vn/storynest/config"
	"github.com/storynest-vn/storynest/gateway"
	"github.com/storynest-vn/storynest/models"
	"github.com/storynest-vn/storynest/utils"
)

// CreateTopupRequest is the top-up intent input, amount in VND.
type CreateTopupRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// CreateMomoTopup initiates a gateway top-up and returns the pay URL and
// QR data for the client to complete the payment.
func CreateMomoTopup(c *gin.Context) {
	utils.LogInfo("CreateMomoTopup called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid top-up request for user ID: %d: %v", user.ID, err)
		utils.AppErrorResponse(c, utils.InvalidAmountError("Amount is required and must be positive"))
		return
	}
	utils.LogDebug("Top-up request - User ID: %d, Amount: %d VND", user.ID, req.Amount)

	order, payment, err := createTopupIntent(config.DB, momoClient, appCfg.Momo.MinTopupAmount, user.ID, req.Amount)
	if err != nil {
		utils.LogError("Failed to create top-up intent for user ID: %d: %v", user.ID, err)
		utils.AppErrorResponse(c, err)
		return
	}
	utils.LogInfo("Created top-up order %s for user ID: %d", payment.OrderID, user.ID)

	utils.Success(c, utils.MsgTopupCreated, gin.H{
		"order_id":    payment.OrderID,
		"amount":      payment.Amount,
		"pay_url":     order.PayURL,
		"qr_code_url": order.QRCodeURL,
		"deeplink":    order.Deeplink,
	})
}

// MomoIPN handles the gateway's asynchronous payment notification. The
// gateway retries on any non-zero resultCode in the ack, so internal
// failures are reported as retryable rather than swallowed.
func MomoIPN(c *gin.Context) {
	utils.LogInfo("MomoIPN called")

	var payload gateway.IPNPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.LogError("Malformed IPN payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"message": "Failed", "resultCode": -1})
		return
	}
	utils.LogDebug("IPN received - Order ID: %s, Result code: %d", payload.OrderID, payload.ResultCode)

	if err := applyMomoIPN(config.DB, momoClient, appCfg.Momo.ConversionRate, &payload); err != nil {
		utils.LogError("IPN processing failed for order ID: %s: %v", payload.OrderID, err)
		c.JSON(http.StatusOK, gin.H{"message": "Failed", "resultCode": -1})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success", "resultCode": 0})
}

// MomoReturn handles the browser redirect after the reader leaves the
// gateway page. Read-only; the IPN is the authoritative state change.
func MomoReturn(c *gin.Context) {
	utils.LogInfo("MomoReturn called")

	orderID := c.Query("orderId")
	resultCode, _ := strconv.Atoi(c.DefaultQuery("resultCode", "-1"))

	result := resolveMomoReturn(config.DB, orderID, resultCode)
	if result.Success {
		c.Redirect(http.StatusFound, fmt.Sprintf("/account?deposit_success=true&amount=%d", result.Amount))
		return
	}
	c.Redirect(http.StatusFound, "/account?deposit_success=false&message="+url.QueryEscape(result.Message))
}

// PaymentStatus returns the current state of one top-up order
func PaymentStatus(c *gin.Context) {
	utils.LogInfo("PaymentStatus called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID := c.Param("orderId")
	var payment models.Payment
	if err := config.DB.Where("order_id = ? AND user_id = ?", orderID, user.ID).First(&payment).Error; err != nil {
		utils.LogError("Payment not found - Order ID: %s: %v", orderID, err)
		utils.NotFound(c, utils.ErrPaymentNotFound)
		return
	}

	utils.Success(c, "Payment status retrieved", gin.H{
		"order_id":       payment.OrderID,
		"amount":         payment.Amount,
		"status":         payment.Status,
		"transaction_id": payment.TransactionID,
	})
}

// PaymentHistory lists the user's top-up attempts, newest first
func PaymentHistory(c *gin.Context) {
	utils.LogInfo("PaymentHistory called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(utils.MaxPaymentHistorySize).
		Find(&payments).Error; err != nil {
		utils.LogError("Failed to get payment history for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get payment history", nil)
		return
	}

	formatted := make([]gin.H, len(payments))
	for i, p := range payments {
		formatted[i] = gin.H{
			"order_id":   p.OrderID,
			"amount":     p.Amount,
			"method":     p.Method,
			"status":     p.Status,
			"created_at": p.CreatedAt,
		}
	}

	utils.Success(c, "Payment history retrieved", gin.H{"payments": formatted})
}

// SimulateTopupRequest identifies the pending order to complete.
type SimulateTopupRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// SimulateMomoSuccess fabricates a successful, correctly signed IPN for a
// pending order. Development convenience only; refused in production.
func SimulateMomoSuccess(c *gin.Context) {
	utils.LogInfo("SimulateMomoSuccess called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if appCfg.IsProduction() {
		utils.Forbidden(c, "Not available in production")
		return
	}

	var req SimulateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "order_id is required", err.Error())
		return
	}

	// Only the order's owner may complete it; anyone else sees not-found.
	var payment models.Payment
	if err := config.DB.Where("order_id = ? AND user_id = ?", req.OrderID, user.ID).First(&payment).Error; err != nil {
		utils.NotFound(c, utils.ErrPaymentNotFound)
		return
	}

	payload := gateway.IPNPayload{
		PartnerCode:  appCfg.Momo.PartnerCode,
		OrderID:      payment.OrderID,
		RequestID:    payment.OrderID,
		Amount:       payment.Amount,
		OrderInfo:    fmt.Sprintf("Top up %d VND", payment.Amount),
		OrderType:    "momo_wallet",
		TransID:      time.Now().UnixMilli(),
		ResultCode:   0,
		Message:      "Success",
		PayType:      "qr",
		ResponseTime: time.Now().UnixMilli(),
		ExtraData:    gateway.EncodeExtraData(user.ID),
	}
	payload.Signature = momoClient.SignIPN(&payload)

	if err := applyMomoIPN(config.DB, momoClient, appCfg.Momo.ConversionRate, &payload); err != nil {
		utils.LogError("Simulated IPN failed for order ID: %s: %v", req.OrderID, err)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.Success(c, "Payment simulated successfully", gin.H{
		"order_id": payment.OrderID,
		"amount":   payment.Amount,
	})
}
