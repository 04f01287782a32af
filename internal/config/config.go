package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the full application configuration.
// Populated from environment variables at startup and passed down by the
// container; nothing below this layer reads the environment directly.
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Email   EmailConfig
	PhonePe PhonePeConfig
	MinIO   MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
}

// =====================================================
// PHONEPE CONFIGURATION
// =====================================================

// PhonePeConfig carries everything the gateway client needs.
// AuthMode selects between the v2 OAuth client-credentials flow and the
// legacy X-VERIFY checksum scheme; both sets of credentials are plain config.
type PhonePeConfig struct {
	MerchantID   string // Merchant ID (e.g. "PUJASEVAUAT")
	APIURL       string // PhonePe API base URL
	AuthMode     string // "oauth" or "checksum"
	ClientID     string // OAuth client credentials (v2 API)
	ClientSecret string
	SaltKey      string // Legacy checksum signing (v1 API)
	SaltIndex    string
	RedirectURL  string // Frontend return URL after hosted checkout
	CallbackURL  string // Backend webhook URL registered with PhonePe

	// Webhook credential: PhonePe sends Authorization = SHA256(user:pass)
	WebhookUsername string
	WebhookPassword string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "PujaSeva API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			From:     getEnv("EMAIL_FROM", "bookings@pujaseva.in"),
		},
		PhonePe: PhonePeConfig{
			MerchantID:      getEnv("PHONEPE_MERCHANT_ID", ""),
			APIURL:          getEnv("PHONEPE_API_URL", "https://api-preprod.phonepe.com/apis/pg-sandbox"),
			AuthMode:        getEnv("PHONEPE_AUTH_MODE", "oauth"),
			ClientID:        getEnv("PHONEPE_CLIENT_ID", ""),
			ClientSecret:    getEnv("PHONEPE_CLIENT_SECRET", ""),
			SaltKey:         getEnv("PHONEPE_SALT_KEY", ""),
			SaltIndex:       getEnv("PHONEPE_SALT_INDEX", "1"),
			RedirectURL:     getEnv("PHONEPE_REDIRECT_URL", "http://localhost:3000/payment/return"),
			CallbackURL:     getEnv("PHONEPE_CALLBACK_URL", "http://localhost:8080/api/v1/payments/webhook"),
			WebhookUsername: getEnv("PHONEPE_WEBHOOK_USERNAME", ""),
			WebhookPassword: getEnv("PHONEPE_WEBHOOK_PASSWORD", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "pujaseva"),
			UseSSL:    false,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the config is usable for the current environment
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.PhonePe.MerchantID == "" {
			return fmt.Errorf("PHONEPE_MERCHANT_ID must be set in production")
		}
		if c.PhonePe.WebhookUsername == "" || c.PhonePe.WebhookPassword == "" {
			return fmt.Errorf("PHONEPE_WEBHOOK_USERNAME/PASSWORD must be set in production")
		}
	}

	switch c.PhonePe.AuthMode {
	case "oauth", "checksum":
	default:
		return fmt.Errorf("invalid PHONEPE_AUTH_MODE: %s", c.PhonePe.AuthMode)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
