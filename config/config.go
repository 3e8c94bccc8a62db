package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration.
type Config struct {
	Env                 string
	Port                string
	PublicBaseURL       string
	UploadDir           string
	BackupDir           string
	BackupRetentionDays int
	BackupHour          int

	Database DatabaseSettings
	Logger   LoggerSettings
	Redis    RedisSettings
	Auth     AuthSettings
	Payment  PaymentSettings
	Commerce CommerceSettings
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("backup_dir", "./backup/uploads")
	v.SetDefault("backup_retention_days", 4)
	v.SetDefault("backup_hour", 2)

	v.SetDefault("db_type", PostgresDbType)

	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("log_type", LogTypeConsole)
	v.SetDefault("log_max_size", 10)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age", 28)

	v.SetDefault("redis_enabled", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_prefix", "jhf:")

	v.SetDefault("jwt_ttl", "24h")

	v.SetDefault("vnpay_pay_url", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	v.SetDefault("momo_endpoint", "https://test-payment.momo.vn/v2/gateway/api/create")
	v.SetDefault("stripe_api_base", "https://api.stripe.com")

	v.SetDefault("currency", "VND")
	v.SetDefault("platform_fee_percent", 10.0)
	v.SetDefault("checkout_session_ttl", "30m")
	v.SetDefault("low_stock_threshold", 5)
}

// Load reads envFile (when it exists) and the process environment into a validated Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:                 v.GetString("app_env"),
		Port:                v.GetString("port"),
		PublicBaseURL:       strings.TrimRight(v.GetString("public_base_url"), "/"),
		UploadDir:           v.GetString("upload_dir"),
		BackupDir:           v.GetString("backup_dir"),
		BackupRetentionDays: v.GetInt("backup_retention_days"),
		BackupHour:          v.GetInt("backup_hour"),
		Database: DatabaseSettings{
			Type: v.GetString("db_type"),
			DSN:  v.GetString("database_url"),
		},
		Logger: LoggerSettings{
			LogLevel:   v.GetString("log_level"),
			LogType:    v.GetString("log_type"),
			FilePath:   v.GetString("log_file"),
			MaxSize:    v.GetInt("log_max_size"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAge:     v.GetInt("log_max_age"),
		},
		Redis: RedisSettings{
			Enabled:  v.GetBool("redis_enabled"),
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			Prefix:   v.GetString("redis_prefix"),
		},
		Auth: AuthSettings{
			JWTSecret:               v.GetString("jwt_secret"),
			TokenTTL:                v.GetDuration("jwt_ttl"),
			AdminAPIKey:             v.GetString("admin_api_key"),
			FirebaseProjectID:       v.GetString("firebase_project_id"),
			FirebaseCredentialsJSON: v.GetString("firebase_credentials_json"),
		},
		Payment: PaymentSettings{
			VNPay: VNPaySettings{
				TmnCode:    v.GetString("vnpay_tmn_code"),
				HashSecret: v.GetString("vnpay_hash_secret"),
				PayURL:     v.GetString("vnpay_pay_url"),
				ReturnURL:  v.GetString("vnpay_return_url"),
			},
			MoMo: MoMoSettings{
				PartnerCode: v.GetString("momo_partner_code"),
				AccessKey:   v.GetString("momo_access_key"),
				SecretKey:   v.GetString("momo_secret_key"),
				Endpoint:    v.GetString("momo_endpoint"),
				RedirectURL: v.GetString("momo_redirect_url"),
				IPNURL:      v.GetString("momo_ipn_url"),
			},
			Stripe: StripeSettings{
				SecretKey:     v.GetString("stripe_secret_key"),
				WebhookSecret: v.GetString("stripe_webhook_secret"),
				SuccessURL:    v.GetString("stripe_success_url"),
				CancelURL:     v.GetString("stripe_cancel_url"),
				APIBase:       strings.TrimRight(v.GetString("stripe_api_base"), "/"),
			},
		},
		Commerce: CommerceSettings{
			Currency:           strings.ToUpper(v.GetString("currency")),
			PlatformFeePercent: v.GetFloat64("platform_fee_percent"),
			CheckoutSessionTTL: v.GetDuration("checkout_session_ttl"),
			LowStockThreshold:  v.GetInt("low_stock_threshold"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs every settings block validator.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.BackupHour < 0 || c.BackupHour > 23 {
		return fmt.Errorf("backup hour must be between 0 and 23")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Commerce.Validate()
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
