package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the application configuration
type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port         string
	Environment  string
	AllowOrigins []string

	// Cache
	RedisURL string
	CacheTTL time.Duration

	// Events
	NATSUrl string

	// Inventory
	LowStockThreshold decimal.Decimal
	SweepSchedule     string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables
func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	cacheTTL, _ := time.ParseDuration(getEnv("CACHE_TTL", "30s"))

	threshold, err := decimal.NewFromString(getEnv("LOW_STOCK_THRESHOLD", "50"))
	if err != nil {
		threshold = decimal.NewFromInt(50)
	}

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "agrihub_inventory"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:         getEnv("PORT", "8095"),
		Environment:  getEnv("GIN_MODE", "debug"),
		AllowOrigins: strings.Split(getEnv("ALLOW_ORIGINS", "*"), ","),

		// Cache
		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: cacheTTL,

		// Events
		NATSUrl: getEnv("NATS_URL", ""),

		// Inventory
		LowStockThreshold: threshold,
		SweepSchedule:     getEnv("LOW_STOCK_SWEEP_SCHEDULE", "*/15 * * * *"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// InitDB initializes the database connection
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "release" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "release"
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
