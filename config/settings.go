package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Database types
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// Log level constants
const (
	LogLevelInfo    = "info"
	LogLevelDebug   = "debug"
	LogLevelError   = "error"
	LogLevelWarning = "warning"
)

// Log type constants
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

var validate = validator.New()

// DatabaseSettings selects the gorm dialector and its DSN.
type DatabaseSettings struct {
	Type string `mapstructure:"db_type" validate:"required,oneof=postgres sqlite"`
	DSN  string `mapstructure:"database_url" validate:"required"`
}

func (s *DatabaseSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}
	return nil
}

// LoggerSettings holds log level, sink and rotation settings.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=info debug error warning"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"log_max_size"`
	MaxBackups int    `mapstructure:"log_max_backups"`
	MaxAge     int    `mapstructure:"log_max_age"`
}

func (s *LoggerSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}

	if s.LogType == LogTypeFile {
		if s.FilePath == "" {
			return fmt.Errorf("file path is required for file logger")
		}
		if s.MaxSize < 1 || s.MaxSize > 100 {
			return fmt.Errorf("max size must be between 1 and 100 MB")
		}
		if s.MaxBackups < 1 || s.MaxBackups > 10 {
			return fmt.Errorf("max backups must be between 1 and 10")
		}
		if s.MaxAge < 1 || s.MaxAge > 365 {
			return fmt.Errorf("max age must be between 1 and 365 days")
		}
	}
	return nil
}

// RedisSettings configures the distributed cache. Disabled falls back to an in-process cache.
type RedisSettings struct {
	Enabled  bool   `mapstructure:"redis_enabled"`
	Addr     string `mapstructure:"redis_addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db" validate:"gte=0,lte=15"`
	Prefix   string `mapstructure:"redis_prefix"`
}

func (s *RedisSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for RedisSettings: %w", err)
	}
	return nil
}

// AuthSettings holds token signing and third-party identity settings.
type AuthSettings struct {
	JWTSecret               string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL                time.Duration `mapstructure:"jwt_ttl" validate:"required"`
	AdminAPIKey             string        `mapstructure:"admin_api_key"`
	FirebaseProjectID       string        `mapstructure:"firebase_project_id"`
	FirebaseCredentialsJSON string        `mapstructure:"firebase_credentials_json"`
}

func (s *AuthSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}
	return nil
}

// VNPaySettings for the VNPay redirect gateway.
type VNPaySettings struct {
	TmnCode    string `mapstructure:"vnpay_tmn_code"`
	HashSecret string `mapstructure:"vnpay_hash_secret"`
	PayURL     string `mapstructure:"vnpay_pay_url"`
	ReturnURL  string `mapstructure:"vnpay_return_url"`
}

// Enabled reports whether every field needed to sign a request is present.
func (s VNPaySettings) Enabled() bool {
	return s.TmnCode != "" && s.HashSecret != "" && s.PayURL != ""
}

// MoMoSettings for the MoMo wallet gateway.
type MoMoSettings struct {
	PartnerCode string `mapstructure:"momo_partner_code"`
	AccessKey   string `mapstructure:"momo_access_key"`
	SecretKey   string `mapstructure:"momo_secret_key"`
	Endpoint    string `mapstructure:"momo_endpoint"`
	RedirectURL string `mapstructure:"momo_redirect_url"`
	IPNURL      string `mapstructure:"momo_ipn_url"`
}

func (s MoMoSettings) Enabled() bool {
	return s.PartnerCode != "" && s.AccessKey != "" && s.SecretKey != "" && s.Endpoint != ""
}

// StripeSettings for Stripe Checkout.
type StripeSettings struct {
	SecretKey     string `mapstructure:"stripe_secret_key"`
	WebhookSecret string `mapstructure:"stripe_webhook_secret"`
	SuccessURL    string `mapstructure:"stripe_success_url"`
	CancelURL     string `mapstructure:"stripe_cancel_url"`
	APIBase       string `mapstructure:"stripe_api_base"`
}

func (s StripeSettings) Enabled() bool {
	return s.SecretKey != "" && s.WebhookSecret != ""
}

// PaymentSettings groups every gateway.
type PaymentSettings struct {
	VNPay  VNPaySettings
	MoMo   MoMoSettings
	Stripe StripeSettings
}

// CommerceSettings holds store-wide business constants.
type CommerceSettings struct {
	Currency           string        `mapstructure:"currency" validate:"required,len=3"`
	PlatformFeePercent float64       `mapstructure:"platform_fee_percent" validate:"gte=0,lte=100"`
	CheckoutSessionTTL time.Duration `mapstructure:"checkout_session_ttl" validate:"required"`
	LowStockThreshold  int           `mapstructure:"low_stock_threshold" validate:"gte=0"`
}

func (s *CommerceSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for CommerceSettings: %w", err)
	}
	return nil
}
