package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds for the wallet and payment subsystem. Handlers map these to
// HTTP responses; nothing below the controller layer touches HTTP status
// codes directly.
const (
	KindNotFound            = "not_found"
	KindInvalidAmount       = "invalid_amount"
	KindAlreadyPurchased    = "already_purchased"
	KindInsufficientBalance = "insufficient_balance"
	KindInvalidOperation    = "invalid_operation"
	KindInvalidSignature    = "invalid_signature"
	KindDuplicateOrder      = "duplicate_order"
	KindGatewayUnavailable  = "gateway_unavailable"
	KindInternal            = "internal"
)

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NotFoundError creates a 404 error for a missing user, chapter or payment
func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, message, nil)
}

// InvalidAmountError creates an error for non-positive or below-minimum amounts
func InvalidAmountError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidAmount, message, nil)
}

// AlreadyPurchasedError creates an error for duplicate chapter unlocks
func AlreadyPurchasedError() *AppError {
	return NewAppError(http.StatusBadRequest, KindAlreadyPurchased, ErrChapterAlreadyOwned, nil)
}

// InsufficientBalanceError reports the required and available coin amounts
func InsufficientBalanceError(need, have int64) *AppError {
	return NewAppError(http.StatusBadRequest, KindInsufficientBalance,
		fmt.Sprintf("Insufficient balance: need %d coins, have %d coins", need, have), nil)
}

// InvalidOperationError creates an error for operations that make no sense
// in the current state, such as buying a free chapter
func InvalidOperationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidOperation, message, nil)
}

// InvalidSignatureError creates an error for forged or corrupted callbacks
func InvalidSignatureError() *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidSignature, ErrInvalidSignature, nil)
}

// DuplicateOrderError creates an error for colliding gateway order refs
func DuplicateOrderError() *AppError {
	return NewAppError(http.StatusConflict, KindDuplicateOrder, ErrDuplicateOrder, nil)
}

// GatewayUnavailableError creates a 503 error for gateway network failures
func GatewayUnavailableError(err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, KindGatewayUnavailable, ErrGatewayUnavailable, err)
}

// InternalError wraps an unexpected storage or runtime failure
func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, KindInternal, message, err)
}

// GetAppError returns the AppError if the error is (or wraps) an AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind string) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return IsKind(err, KindNotFound)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
