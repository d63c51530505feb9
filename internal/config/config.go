package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to a documented env var.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Remote backend. REMOTE_ENABLED is re-read per operation via
	// RemoteEnabled(), never from this snapshot — see repository.Selector.
	BackendURL           string `mapstructure:"BACKEND_URL"`
	BackendTimeoutSecs   int    `mapstructure:"BACKEND_TIMEOUT_SECS"`
	RemoteEnabledDefault bool   `mapstructure:"REMOTE_ENABLED"`

	// Local store
	LocalDBPath string `mapstructure:"LOCAL_DB_PATH"`

	// Redis (async job queue). Empty disables the worker pool.
	RedisURL string `mapstructure:"REDIS_URL"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Receipts
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
	StoreName          string `mapstructure:"STORE_NAME"`
	StoreAddress       string `mapstructure:"STORE_ADDRESS"`
	ReceiptFooter      string `mapstructure:"RECEIPT_FOOTER"`
	ReceiptPolicy      string `mapstructure:"RECEIPT_POLICY"`
	MaxItemNameLen     int    `mapstructure:"RECEIPT_MAX_ITEM_NAME_LEN"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("BACKEND_URL", "http://localhost:8001")
	viper.SetDefault("BACKEND_TIMEOUT_SECS", 15)
	viper.SetDefault("REMOTE_ENABLED", false)
	viper.SetDefault("LOCAL_DB_PATH", "tokopos.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("RECEIPT_STORAGE_PATH", "/tmp/tokopos/receipts")
	viper.SetDefault("STORE_NAME", "TokoPOS")
	viper.SetDefault("STORE_ADDRESS", "")
	viper.SetDefault("RECEIPT_FOOTER", "Thank you for your purchase!")
	viper.SetDefault("RECEIPT_POLICY", "")
	viper.SetDefault("RECEIPT_MAX_ITEM_NAME_LEN", 22)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RemoteEnabled reports whether remote mode is active right now. The
// environment is consulted on every call so the mode can flip without a
// restart; when the variable is unset the .env/default snapshot applies.
func (c *Config) RemoteEnabled() bool {
	if v, ok := os.LookupEnv("REMOTE_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return c.RemoteEnabledDefault
}
