// Package config loads the API configuration from the environment.
//
// Values come from (highest priority first): process environment, the .env
// file in the working directory, and the defaults registered here.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server and CLI read at startup.
type Config struct {
	Port        string
	BaseURL     string
	FrontendURL string
	CORSOrigins []string
	UploadDir   string

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
	AutoMigrate    bool

	JWTSecret string
	JWTTTL    time.Duration

	StaticOTP bool
	OTPTTL    time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	PayPalClientID string
	PayPalSecret   string
	PayPalMode     string
	Currency       string

	RabbitURL      string
	RabbitExchange string

	GeminiAPIKey string
	GeminiModel  string

	OTLPEndpoint string

	LogLevel  string
	LogFormat string
}

// SMTPEnabled reports whether outgoing mail goes through a real SMTP relay.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

// PayPalEnabled reports whether PayPal credentials were provided.
func (c Config) PayPalEnabled() bool {
	return c.PayPalClientID != "" && c.PayPalSecret != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("BASE_URL", "http://localhost:5000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("UPLOAD_DIR", "./uploads")

	v.SetDefault("DATABASE_URL", "sqlite://glow.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_LIFETIME", "5m")
	v.SetDefault("AUTO_MIGRATE", true)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "72h")

	v.SetDefault("STATIC_OTP", false)
	v.SetDefault("OTP_TTL", "5m")

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "Glow Beauty <no-reply@glowbeauty.local>")

	v.SetDefault("PAYPAL_MODE", "sandbox")
	v.SetDefault("CURRENCY", "USD")

	v.SetDefault("RABBIT_EXCHANGE", "orders.exchange")

	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env (if present) and the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("could not load .env file, relying on system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:        v.GetString("PORT"),
		BaseURL:     strings.TrimRight(v.GetString("BASE_URL"), "/"),
		FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		UploadDir:   v.GetString("UPLOAD_DIR"),

		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnLifetime: v.GetDuration("DB_CONN_LIFETIME"),
		AutoMigrate:    v.GetBool("AUTO_MIGRATE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		StaticOTP: v.GetBool("STATIC_OTP"),
		OTPTTL:    v.GetDuration("OTP_TTL"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUser:     v.GetString("SMTP_USER"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		SMTPFrom:     v.GetString("SMTP_FROM"),

		PayPalClientID: v.GetString("PAYPAL_CLIENT_ID"),
		PayPalSecret:   v.GetString("PAYPAL_CLIENT_SECRET"),
		PayPalMode:     v.GetString("PAYPAL_MODE"),
		Currency:       v.GetString("CURRENCY"),

		RabbitURL:      v.GetString("RABBIT_URL"),
		RabbitExchange: v.GetString("RABBIT_EXCHANGE"),

		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		GeminiModel:  v.GetString("GEMINI_MODEL"),

		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}
	return cfg
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
