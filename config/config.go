package config

import (
	"os"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OTP        OTPConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Korapay    KorapayConfig
	Mail       MailConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	ResetExpiry   time.Duration
	Issuer        string
}

// OTPConfig drives the time-based reset codes. Step widths differ per role:
// admins get a tighter window than tenants/landlords.
type OTPConfig struct {
	Seed       string
	Digits     int
	AdminStep  time.Duration
	TenantStep time.Duration
	Skew       uint
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// KorapayConfig for hosted checkout via the Korapay charges API.
type KorapayConfig struct {
	BaseURL     string
	SecretKey   string
	Currency    string
	RedirectURL string // gateway sends the customer back here with ?reference=
}

// MailConfig for transactional email via the Brevo HTTP API.
type MailConfig struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8090"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "heavenlist:heavenlist@tcp(localhost:3306)/heavenlist?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			ResetSecret:   env("JWT_RESET_SECRET", "change-me-reset"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			ResetExpiry:   10 * time.Minute,
			Issuer:        "heavenlist",
		},
		OTP: OTPConfig{
			Seed:       env("OTP_SEED", "change-me-otp-seed"),
			Digits:     6,
			AdminStep:  5 * time.Minute,
			TenantStep: 15 * time.Minute,
			Skew:       1,
		},
		OAuth: OAuthConfig{
			GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", "https://heavenlist.ng/api/v1/auth/google/callback"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Korapay: KorapayConfig{
			BaseURL:     env("KORAPAY_BASE_URL", "https://api.korapay.com/merchant/api/v1"),
			SecretKey:   env("KORAPAY_SECRET_KEY", ""),
			Currency:    env("KORAPAY_CURRENCY", "NGN"),
			RedirectURL: env("KORAPAY_REDIRECT_URL", "https://heavenlist.ng/api/v1/payments/verify"),
		},
		Mail: MailConfig{
			APIKey:      env("BREVO_API_KEY", ""),
			SenderEmail: env("EMAIL_SENDER", "no-reply@heavenlist.ng"),
			SenderName:  env("EMAIL_SENDER_NAME", "HeavenList"),
		},
	}
}
