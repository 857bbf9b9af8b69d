package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/storynest-vn/storynest/controllers"
	"github.com/storynest-vn/storynest/middleware"
	"github.com/storynest-vn/storynest/utils"
)

// SetupRouter initializes and returns the Gin router with all routes.
// The ambient middleware must be attached before any route is registered;
// gin snapshots a route's handler chain at registration time, so a later
// Use call never reaches already-registered routes.
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	api := router.Group("/v1")
	{
		initWalletRoutes(api)
		initPaymentRoutes(api)
		initAdminRoutes(api)
	}

	return router
}

func initWalletRoutes(api *gin.RouterGroup) {
	wallet := api.Group("/wallet")
	wallet.Use(middleware.AuthMiddleware())
	{
		wallet.GET("/balance", controllers.GetWalletBalance)
		wallet.GET("/transactions", controllers.GetWalletTransactions)
		wallet.POST("/buy-coins", controllers.BuyCoins)
		wallet.GET("/purchases/:chapterId", controllers.CheckPurchase)
		wallet.POST("/unlock-chapter/:chapterId", controllers.UnlockChapter)
	}
}

func initPaymentRoutes(api *gin.RouterGroup) {
	payment := api.Group("/payment")

	// Gateway-facing endpoints authenticate by payload signature and
	// browser redirect respectively, not by bearer token.
	payment.POST("/momo-ipn", controllers.MomoIPN)
	payment.GET("/momo-return", controllers.MomoReturn)

	authed := payment.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/momo/create", controllers.CreateMomoTopup)
		authed.GET("/history", controllers.PaymentHistory)
		authed.GET("/status/:orderId", controllers.PaymentStatus)
		authed.POST("/test/simulate-success", controllers.SimulateMomoSuccess)
	}
}

func initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/wallet/:userId/adjust", controllers.AdjustUserWallet)
		admin.GET("/wallet-transactions", controllers.ListAllWalletTransactions)
	}
}
