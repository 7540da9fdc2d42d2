package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	AppEnv string
	Port   string

	StoreDriver string // mongo | memory
	MongoURI    string
	DBName      string

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	StripeSecretKey string
	StripeCurrency  string
	StripeMinAmount int64 // smallest donation, in cents
	PublicAppURL    string
	GeneralDonation string
	ReconcileGrace  time.Duration
	CORSOrigins     []string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	ZeptoAPIURL string
	ZeptoAPIKey string
	EmailFrom   string
	NotifyEmail string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
}

// Load reads a .env file when one exists and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("MONGODB_DB", "nonprofit"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		SessionTTL:   time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripeCurrency:  strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
		StripeMinAmount: int64(getEnvInt("STRIPE_MIN_AMOUNT_CENTS", 500)),
		PublicAppURL:    strings.TrimRight(firstEnv("http://localhost:3000", "PUBLIC_APP_URL", "NEXT_PUBLIC_APP_URL"), "/"),
		GeneralDonation: firstEnv("", "GENERAL_DONATION_LINK", "NEXT_PUBLIC_GENERAL_DONATION_LINK"),
		ReconcileGrace:  time.Second * time.Duration(getEnvInt("RECONCILE_GRACE_SECONDS", 300)),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		ZeptoAPIURL: os.Getenv("ZEPTO_API_URL"),
		ZeptoAPIKey: os.Getenv("ZEPTO_API_KEY"),
		EmailFrom:   os.Getenv("EMAIL_FROM"),
		NotifyEmail: os.Getenv("CONTACT_NOTIFY_EMAIL"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StoreDriver != "mongo" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("STORE_DRIVER must be mongo or memory, got %q", cfg.StoreDriver)
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if cfg.StripeMinAmount < 0 {
		return nil, fmt.Errorf("STRIPE_MIN_AMOUNT_CENTS must not be negative")
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func (c *Config) StripeEnabled() bool { return c.StripeSecretKey != "" }

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) MailEnabled() bool {
	return c.ZeptoAPIURL != "" && c.ZeptoAPIKey != "" && c.EmailFrom != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func firstEnv(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
