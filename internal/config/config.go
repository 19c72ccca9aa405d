package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds token verification configuration. Tokens are issued by the
// platform's auth service; this engine only verifies them.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// EngineConfig holds attendance/leave policy knobs. It is passed into each
// service explicitly rather than read as ambient global state, so every
// operation is deterministic per call.
type EngineConfig struct {
	// StandardDayHours is the threshold beyond which net worked time counts
	// as overtime.
	StandardDayHours int

	// GeofenceStrict rejects punches outside all active zones instead of
	// recording them as non-compliant for audit.
	GeofenceStrict bool

	// AutoApproveManagers resolves exception requests from managers as
	// approved in the same operation that creates them.
	AutoApproveManagers bool

	// StoreTimeout bounds every store interaction; on expiry the operation
	// surfaces a store-unavailable failure instead of hanging the caller.
	StoreTimeout time.Duration

	// AccrualCheckInterval is how often the accrual job wakes up to see
	// whether the current period still needs an accrual run.
	AccrualCheckInterval time.Duration
}

// StandardDay returns the standard working day as a duration.
func (e EngineConfig) StandardDay() time.Duration {
	return time.Duration(e.StandardDayHours) * time.Hour
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Engine policy configuration
	standardDayHours, err := strconv.Atoi(getEnv("STANDARD_DAY_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_DAY_HOURS: %w", err)
	}

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}

	accrualInterval, err := time.ParseDuration(getEnv("ACCRUAL_CHECK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_CHECK_INTERVAL: %w", err)
	}

	config.Engine = EngineConfig{
		StandardDayHours:     standardDayHours,
		GeofenceStrict:       getEnvBool("GEOFENCE_STRICT", false),
		AutoApproveManagers:  getEnvBool("AUTO_APPROVE_MANAGERS", false),
		StoreTimeout:         storeTimeout,
		AccrualCheckInterval: accrualInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Engine.StandardDayHours <= 0 || c.Engine.StandardDayHours > 24 {
		return fmt.Errorf("STANDARD_DAY_HOURS must be between 1 and 24")
	}
	if c.Engine.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
