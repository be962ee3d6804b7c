package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Line   LineConfig
	OpenAI OpenAIConfig
	Ledger LedgerConfig
	Sheets SheetsConfig
	DB     DBConfig
	S3     S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LineConfig holds the LINE Messaging API channel credentials.
type LineConfig struct {
	ChannelSecret      string `mapstructure:"channel_secret"`
	ChannelAccessToken string `mapstructure:"channel_access_token"`
}

// OpenAIConfig holds Azure OpenAI deployment settings.
type OpenAIConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	Deployment  string `mapstructure:"deployment"`
	APIVersion  string `mapstructure:"api_version"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// LedgerConfig selects the ledger backend.
type LedgerConfig struct {
	Backend string `mapstructure:"backend"` // "sheets" or "postgres"
}

// SheetsConfig holds Google Sheets ledger settings. Credentials is either
// inline service-account JSON or a path to a credentials file.
type SheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	Credentials   string `mapstructure:"credentials"`
}

// DBConfig holds PostgreSQL connection settings for the postgres ledger.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the optional inbound-image archive. An empty
// bucket disables archival.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Load reads configuration from environment variables with the TRIPDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRIPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// LINE defaults
	v.SetDefault("line.channel_secret", "")
	v.SetDefault("line.channel_access_token", "")

	// Azure OpenAI defaults
	v.SetDefault("openai.endpoint", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.deployment", "gpt-4o")
	v.SetDefault("openai.api_version", "2024-05-01-preview")
	v.SetDefault("openai.timeout_secs", 120)

	// Ledger defaults
	v.SetDefault("ledger.backend", "sheets")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.credentials", "")

	// DB defaults (postgres ledger backend)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tripdesk")
	v.SetDefault("db.password", "tripdesk_secret")
	v.SetDefault("db.name", "tripdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults (image archive, disabled unless bucket set)
	v.SetDefault("s3.region", "ap-northeast-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "TRIPDESK_SERVER_PORT",
		"server.read_timeout":       "TRIPDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "TRIPDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":        "TRIPDESK_SERVER_ENVIRONMENT",
		"line.channel_secret":       "TRIPDESK_LINE_CHANNEL_SECRET",
		"line.channel_access_token": "TRIPDESK_LINE_CHANNEL_ACCESS_TOKEN",
		"openai.endpoint":           "TRIPDESK_OPENAI_ENDPOINT",
		"openai.api_key":            "TRIPDESK_OPENAI_API_KEY",
		"openai.deployment":         "TRIPDESK_OPENAI_DEPLOYMENT",
		"openai.api_version":        "TRIPDESK_OPENAI_API_VERSION",
		"openai.timeout_secs":       "TRIPDESK_OPENAI_TIMEOUT_SECS",
		"ledger.backend":            "TRIPDESK_LEDGER_BACKEND",
		"sheets.spreadsheet_id":     "TRIPDESK_SHEETS_SPREADSHEET_ID",
		"sheets.credentials":        "TRIPDESK_SHEETS_CREDENTIALS",
		"db.host":                   "TRIPDESK_DB_HOST",
		"db.port":                   "TRIPDESK_DB_PORT",
		"db.user":                   "TRIPDESK_DB_USER",
		"db.password":               "TRIPDESK_DB_PASSWORD",
		"db.name":                   "TRIPDESK_DB_NAME",
		"db.sslmode":                "TRIPDESK_DB_SSLMODE",
		"db.max_open":               "TRIPDESK_DB_MAX_OPEN",
		"db.max_idle":               "TRIPDESK_DB_MAX_IDLE",
		"s3.region":                 "TRIPDESK_S3_REGION",
		"s3.bucket":                 "TRIPDESK_S3_BUCKET",
		"s3.endpoint":               "TRIPDESK_S3_ENDPOINT",
		"s3.access_key":             "TRIPDESK_S3_ACCESS_KEY",
		"s3.secret_key":             "TRIPDESK_S3_SECRET_KEY",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings a running server cannot do without.
func (c *Config) Validate() error {
	if c.Line.ChannelSecret == "" || c.Line.ChannelAccessToken == "" {
		return fmt.Errorf("line.channel_secret and line.channel_access_token are required")
	}
	if c.OpenAI.APIKey == "" || c.OpenAI.Endpoint == "" {
		return fmt.Errorf("openai.endpoint and openai.api_key are required")
	}
	switch c.Ledger.Backend {
	case "sheets":
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sheets.spreadsheet_id is required for the sheets ledger")
		}
	case "postgres":
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
	}
	return nil
}
