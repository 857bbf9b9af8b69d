package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storynest-vn/storynest/gateway"
	"github.com/storynest-vn/storynest/models"
	"github.com/storynest-vn/storynest/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// newOrderID generates the unique external order reference for a top-up.
func newOrderID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), suffix)
}

// createTopupIntent builds the signed gateway order, persists the pending
// Payment row and returns the gateway redirect data. Nothing is credited
// here; the credit happens only when the signed IPN arrives.
func createTopupIntent(db *gorm.DB, client *gateway.Client, minAmount int64, userID uint, amount int64) (*gateway.CreateOrderResponse, *models.Payment, error) {
	if amount < minAmount {
		return nil, nil, utils.InvalidAmountError(fmt.Sprintf("Minimum top-up amount is %d VND", minAmount))
	}

	orderID := newOrderID()

	// Defensive: the uuid suffix makes collisions implausible, but a
	// stale pending row with the same reference must never be reused.
	var existing int64
	err := db.Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Count(&existing).Error
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, utils.DuplicateOrderError()
	}

	orderInfo := fmt.Sprintf("Top up %d VND", amount)
	extraData := gateway.EncodeExtraData(userID)

	order, err := client.CreateOrder(orderID, orderID, orderInfo, extraData, amount)
	if err != nil {
		return nil, nil, utils.GatewayUnavailableError(err)
	}

	payment := models.Payment{
		UserID:  userID,
		OrderID: orderID,
		Amount:  amount,
		Method:  models.PaymentMethodMomo,
		Status:  models.PaymentStatusPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, utils.DuplicateOrderError()
		}
		return nil, nil, err
	}

	return order, &payment, nil
}

// applyMomoIPN reconciles one gateway notification. The signature check is
// the trust boundary; past it, the payment row is locked and moved to its
// terminal state together with the balance credit in one transaction, so
// replayed or concurrent deliveries of the same orderId apply at most once.
func applyMomoIPN(db *gorm.DB, client *gateway.Client, conversionRate int64, payload *gateway.IPNPayload) error {
	if !client.VerifyIPNSignature(payload) {
		utils.LogError("IPN signature mismatch for order ID: %s", payload.OrderID)
		return utils.InvalidSignatureError()
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", payload.OrderID).
			First(&payment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError(utils.ErrPaymentNotFound)
			}
			return err
		}

		// Retries of an already reconciled order are expected; ack
		// without touching anything.
		if payment.Status == models.PaymentStatusCompleted {
			utils.LogInfo("IPN replay for completed order ID: %s, skipping", payment.OrderID)
			return nil
		}

		resultCode := payload.ResultCode
		payment.ResultCode = &resultCode
		payment.Message = payload.Message

		if payload.ResultCode != 0 {
			payment.Status = models.PaymentStatusFailed
			utils.LogInfo("Payment failed for order ID: %s - %s (code %d)", payment.OrderID, payload.Message, payload.ResultCode)
			return tx.Save(&payment).Error
		}

		payment.Status = models.PaymentStatusCompleted
		payment.TransactionID = fmt.Sprintf("%d", payload.TransID)
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		userID, err := gateway.DecodeExtraData(payload.ExtraData)
		if err != nil {
			return err
		}

		coins := payload.Amount / conversionRate
		note := fmt.Sprintf("Topped up %d VND via MoMo (order %s)", payload.Amount, payment.OrderID)

		_, _, err = adjustCoinsTx(tx, userID, coins, models.TransactionTypeTopup, note, &payment.ID)
		if err != nil {
			return err
		}

		utils.LogInfo("Payment %s completed, credited %d coins to user ID: %d", payment.OrderID, coins, userID)
		return nil
	})
}

// returnResult is what the browser redirect reports back to the reader.
type returnResult struct {
	Success bool
	Message string
	Amount  int64
}

// resolveMomoReturn reads the payment state for the user-facing redirect.
// The IPN is authoritative; this never mutates anything.
func resolveMomoReturn(db *gorm.DB, orderID string, resultCode int) returnResult {
	var payment models.Payment
	if err := db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return returnResult{Success: false, Message: utils.ErrPaymentNotFound}
	}

	if resultCode == 0 {
		return returnResult{Success: true, Message: utils.MsgDepositSuccess, Amount: payment.Amount}
	}
	return returnResult{Success: false, Message: utils.MsgDepositFailed, Amount: payment.Amount}
}
