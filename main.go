package main

import (
	"log"

	"github.com/storynest-vn/storynest/config"
	"github.com/storynest-vn/storynest/controllers"
	"github.com/storynest-vn/storynest/middleware"
	"github.com/storynest-vn/storynest/routes"
	"github.com/storynest-vn/storynest/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB(cfg)

	// Wire configuration into auth and controllers
	middleware.Init(cfg.JWTSecret)
	controllers.Init(cfg)

	// Set up router with the full middleware chain
	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
