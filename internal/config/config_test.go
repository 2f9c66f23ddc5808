package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaraj0405/klias-campus-backend/internal/database"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, database.InMemoryDSN, cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "localhost", cfg.SMTPDomain)
	assert.False(t, cfg.SMTPAllowInsecure)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 10.0, cfg.RateLimitRequests)
	assert.Equal(t, 20, cfg.RateLimitBurst)
}

func TestLoad_InvalidAPIPort(t *testing.T) {
	os.Setenv("API_PORT", "not-a-port")
	defer os.Unsetenv("API_PORT")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_PORT must be a valid integer")
}

func TestLoad_InvalidSeedDemoData(t *testing.T) {
	os.Setenv("SEED_DEMO_DATA", "invalid")
	defer os.Unsetenv("SEED_DEMO_DATA")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SEED_DEMO_DATA must be a valid boolean")
}

func TestLoad_SeedDemoDataDisabled(t *testing.T) {
	os.Setenv("SEED_DEMO_DATA", "false")
	defer os.Unsetenv("SEED_DEMO_DATA")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SeedDemoData)
}

func TestValidateProduction_RequiresAPIKey(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		AppEnv:         "production",
		AllowedOrigins: "http://example.com",
		APIKey:         "",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY is required")
}

func TestValidateProduction_RequiresAllowedOrigins(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		AppEnv:         "production",
		APIKey:         "test-key",
		AllowedOrigins: "",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_ORIGINS is required")
}

func TestValidateProduction_NoWildcardOrigins(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		AppEnv:         "production",
		APIKey:         "test-key",
		AllowedOrigins: "*",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wildcard")
}

func TestValidateProduction_NoSSLDisable(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test?sslmode=disable",
		AppEnv:         "production",
		APIKey:         "test-key",
		AllowedOrigins: "http://example.com",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode=disable")
}

func TestValidateProduction_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test?sslmode=require",
		AppEnv:         "production",
		APIKey:         "test-key",
		AllowedOrigins: "http://example.com",
	}

	err := cfg.ValidateProduction()
	assert.NoError(t, err)
}

func TestLoadWithValidation_FailFast(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test?sslmode=disable")
	os.Setenv("APP_ENV", "production")
	os.Setenv("API_KEY", "test-key")
	os.Setenv("ALLOWED_ORIGINS", "http://example.com")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("APP_ENV")
		os.Unsetenv("API_KEY")
		os.Unsetenv("ALLOWED_ORIGINS")
	}()

	_, err := LoadWithValidation()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode=disable")
}

func TestLoadWithValidation_DevelopmentAllowsInsecure(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test?sslmode=disable")
	os.Setenv("APP_ENV", "development")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("APP_ENV")
	}()

	cfg, err := LoadWithValidation()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/test",
		APIPort:     0,
		SMTPPort:    2525,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "APIPort")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/test",
		APIPort:     8080,
		SMTPPort:    2525,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestLoad_SecurityConfig(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("API_KEY", "my-secret-key")
	os.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,http://example.com")
	os.Setenv("APP_ENV", "staging")
	os.Setenv("RATE_LIMIT_REQUESTS", "20")
	os.Setenv("RATE_LIMIT_BURST", "50")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("API_KEY")
		os.Unsetenv("ALLOWED_ORIGINS")
		os.Unsetenv("APP_ENV")
		os.Unsetenv("RATE_LIMIT_REQUESTS")
		os.Unsetenv("RATE_LIMIT_BURST")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-secret-key", cfg.APIKey)
	assert.Equal(t, "http://localhost:3000,http://example.com", cfg.AllowedOrigins)
	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, 20.0, cfg.RateLimitRequests)
	assert.Equal(t, 50, cfg.RateLimitBurst)
}

func TestLoad_SMTPSettings(t *testing.T) {
	os.Setenv("SMTP_DOMAIN", "mail.klias.edu")
	os.Setenv("SMTP_ALLOW_INSECURE", "true")
	defer os.Unsetenv("SMTP_DOMAIN")
	defer os.Unsetenv("SMTP_ALLOW_INSECURE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mail.klias.edu", cfg.SMTPDomain)
	assert.True(t, cfg.SMTPAllowInsecure)
}

func TestLoad_InvalidSMTPAllowInsecure(t *testing.T) {
	os.Setenv("SMTP_ALLOW_INSECURE", "maybe")
	defer os.Unsetenv("SMTP_ALLOW_INSECURE")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_ALLOW_INSECURE must be a valid boolean")
}
