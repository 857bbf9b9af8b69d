package config

import (
	"fmt"

	"github.com/storynest-vn/storynest/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection and runs migrations.
func InitDB(config *Config) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Chapter{},
		&models.WalletTransaction{},
		&models.Purchase{},
		&models.Payment{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	ensurePurchaseUniqueIndex()
	ensureNonNegativeBalanceConstraint()
}

// ensurePurchaseUniqueIndex creates the partial unique index that allows at
// most one completed purchase per (user, chapter) pair. Refunded rows stay
// behind without blocking a later re-purchase, so a plain gorm uniqueIndex
// tag cannot express this.
func ensurePurchaseUniqueIndex() {
	err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_purchases_user_chapter_completed
		ON purchases (user_id, chapter_id)
		WHERE status = 'completed'
	`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to create purchase unique index: %v", err))
	}
}

// ensureNonNegativeBalanceConstraint adds a database-level floor on
// wallet_coins as a backstop behind the row-locked debit path.
func ensureNonNegativeBalanceConstraint() {
	var constraintExists bool
	err := DB.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.table_constraints
			WHERE constraint_name = 'users_wallet_coins_non_negative'
		)
	`).Scan(&constraintExists).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to check wallet_coins constraint: %v", err))
	}

	if !constraintExists {
		err = DB.Exec(`
			ALTER TABLE users
			ADD CONSTRAINT users_wallet_coins_non_negative CHECK (wallet_coins >= 0)
		`).Error
		if err != nil {
			panic(fmt.Sprintf("Failed to add wallet_coins constraint: %v", err))
		}
	}
}
