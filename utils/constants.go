package utils

// Application constants
const (
	// Application name
	AppName = "StoryNest"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default database host
	DefaultDBHost = "localhost"

	// Default database port
	DefaultDBPort = "5432"

	// Default database name
	DefaultDBName = "storynest"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum page size for wallet transaction listings
	MaxTransactionPageSize = 50

	// Maximum page size for payment history listings
	MaxPaymentHistorySize = 20

	// Default VND-to-coin conversion rate (10 VND = 1 coin)
	DefaultConversionRate = 10

	// Default minimum top-up amount in VND
	DefaultMinTopupAmount = 1000

	// Gateway request timeout in seconds
	GatewayTimeoutSeconds = 15
)

// Error messages
const (
	// Authentication errors
	ErrInvalidToken = "Invalid or expired token"
	ErrUnauthorized = "Unauthorized access"
	ErrUserBlocked  = "Your account has been blocked"

	// Wallet errors
	ErrUserNotFound        = "User not found"
	ErrChapterNotFound     = "Chapter not found"
	ErrPaymentNotFound     = "Payment not found"
	ErrInvalidCoinAmount   = "Coin amount must be greater than 0"
	ErrChapterNotVip       = "This chapter is free and does not need to be purchased"
	ErrChapterAlreadyOwned = "You have already purchased this chapter"

	// Gateway errors
	ErrInvalidSignature   = "Invalid gateway signature"
	ErrDuplicateOrder     = "Order already exists, please try again"
	ErrGatewayUnavailable = "Payment gateway is unavailable, please try again later"

	// Server errors
	ErrInternalServer = "Internal server error"
)

// Success messages
const (
	MsgBalanceRetrieved      = "Wallet balance retrieved successfully"
	MsgTransactionsRetrieved = "Wallet transactions retrieved successfully"
	MsgCoinsAdded            = "Coins added successfully"
	MsgChapterUnlocked       = "Chapter unlocked successfully"
	MsgTopupCreated          = "Top-up order created successfully"
	MsgDepositSuccess        = "Deposit completed successfully!"
	MsgDepositFailed         = "Transaction failed"
)
