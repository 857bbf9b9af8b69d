package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/storynest-vn/storynest/utils"
)

// MomoConfig holds the payment gateway settings. The values are read once
// at startup and injected into the gateway client; business logic never
// reaches into the environment.
type MomoConfig struct {
	PartnerCode    string
	AccessKey      string
	SecretKey      string
	Endpoint       string
	BaseURL        string
	ConversionRate int64 // VND per coin
	MinTopupAmount int64 // VND
}

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string
	Momo       MomoConfig
}

// LoadConfig loads configuration from environment variables. A missing
// .env file is not an error; deployed environments set variables directly.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "storynest"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),
		Momo: MomoConfig{
			PartnerCode:    os.Getenv("MOMO_PARTNER_CODE"),
			AccessKey:      os.Getenv("MOMO_ACCESS_KEY"),
			SecretKey:      os.Getenv("MOMO_SECRET_KEY"),
			Endpoint:       getEnv("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
			BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
			ConversionRate: getEnvInt64("COIN_CONVERSION_RATE", utils.DefaultConversionRate),
			MinTopupAmount: getEnvInt64("MIN_TOPUP_AMOUNT", utils.DefaultMinTopupAmount),
		},
	}

	return config, nil
}

// IsProduction reports whether the app runs with production safeguards,
// which disables the direct buy-coins credit path and IPN simulation.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
