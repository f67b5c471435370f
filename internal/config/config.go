package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppEnv  string

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	StripeSecret       string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	CheckoutCurrency   string
	PaymentTimeout     time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	RequestTimeout   time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	CORSAllowedOrigins []string
	TrustedProxies     []string
}

// MissingEnvError lists required variables that were not set.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort: getEnvString("APP_PORT", "8080"),
		AppEnv:  getEnvString("APP_ENV", "development"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		StripeSecret:       os.Getenv("STRIPE_SECRET"),
		CheckoutSuccessURL: getEnvString("CHECKOUT_SUCCESS_URL", "http://localhost:8080/success"),
		CheckoutCancelURL:  getEnvString("CHECKOUT_CANCEL_URL", "http://localhost:8080/cancel"),
		CheckoutCurrency:   strings.ToLower(getEnvString("CHECKOUT_CURRENCY", "inr")),
		PaymentTimeout:     getEnvDuration("PAYMENT_TIMEOUT", 15*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		HTTPReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES", nil),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.StripeSecret == "" {
		missing = append(missing, "STRIPE_SECRET")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Keys: missing}
	}

	return cfg, nil
}

// IsMissingEnv reports whether err came from absent required variables.
func IsMissingEnv(err error) bool {
	var e *MissingEnvError
	return errors.As(err, &e)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or plain seconds ("15").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
