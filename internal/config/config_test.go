package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/config"
)

func validConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Line.ChannelSecret = "secret"
	cfg.Line.ChannelAccessToken = "token"
	cfg.OpenAI.Endpoint = "https://example.openai.azure.com"
	cfg.OpenAI.APIKey = "key"
	cfg.Ledger.Backend = "sheets"
	cfg.Sheets.SpreadsheetID = "sheet-id"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "sheets", cfg.Ledger.Backend)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Deployment)
	assert.Equal(t, "2024-05-01-preview", cfg.OpenAI.APIVersion)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRIPDESK_SERVER_PORT", ":9999")
	t.Setenv("TRIPDESK_LEDGER_BACKEND", "postgres")
	t.Setenv("TRIPDESK_OPENAI_DEPLOYMENT", "gpt-4o-mini")
	t.Setenv("TRIPDESK_DB_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Ledger.Backend)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Deployment)
	assert.Equal(t, "db.internal", cfg.DB.Host)
}

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "tripdesk",
		Password: "pw",
		Name:     "tripdesk_db",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://tripdesk:pw@localhost:5432/tripdesk_db?sslmode=disable", cfg.DSN())
}

func TestValidate(t *testing.T) {
	t.Run("valid sheets config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing line credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Line.ChannelSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing openai key", func(t *testing.T) {
		cfg := validConfig()
		cfg.OpenAI.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("sheets backend requires spreadsheet id", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sheets.SpreadsheetID = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres backend needs no spreadsheet", func(t *testing.T) {
		cfg := validConfig()
		cfg.Ledger.Backend = "postgres"
		cfg.Sheets.SpreadsheetID = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Ledger.Backend = "dynamo"
		assert.Error(t, cfg.Validate())
	})
}
