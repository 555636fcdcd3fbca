package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range env {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, FetchModeBrowser, cfg.FetchMode)
	assert.Equal(t, []string{"linkedin", "indeed", "glassdoor", "internshala", "myscheme"}, cfg.Sources)
	assert.Equal(t, 30*time.Second, cfg.NavTimeout)
	assert.Equal(t, 1, cfg.RetryAttempts)
	assert.Equal(t, 10, cfg.MaxResults)
	assert.Equal(t, "+91", cfg.Twilio.CountryCode)
	assert.False(t, cfg.Notifier().Configured())
	assert.False(t, cfg.Google.Enabled())
	assert.False(t, cfg.JWT.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SOURCES", "internshala, indeed")
	t.Setenv("FETCH_MODE", "http")
	t.Setenv("READY_TIMEOUT", "3s")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550100")
	t.Setenv("GOOGLE_SEARCH_API_KEY", "key")
	t.Setenv("GOOGLE_SEARCH_CX", "cx")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"internshala", "indeed"}, cfg.Sources)
	assert.Equal(t, FetchModeHTTP, cfg.FetchMode)
	assert.Equal(t, 3*time.Second, cfg.Pool().ReadyTimeout)
	assert.True(t, cfg.Notifier().Configured())
	assert.Equal(t, "+15550100", cfg.Notifier().FromNumber)
	assert.True(t, cfg.Google.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	content := `
port: 7000
sources: [indeed]
retry-attempts: 3
retry-backoff: 500ms
twilio:
  country-code: "+1"
`
	path := filepath.Join(t.TempDir(), "internmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("PORT", "7100")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Port, "environment overrides the file")
	assert.Equal(t, []string{"indeed"}, cfg.Sources)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, "+1", cfg.Twilio.CountryCode)
}

func TestLoad_Flags(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("fetch-mode", FetchModeBrowser, "")
	flags.Bool("unrelated", false, "")
	require.NoError(t, flags.Parse([]string{"--port", "6000"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Port, "explicit flags win")
	assert.Equal(t, FetchModeBrowser, cfg.FetchMode)
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("/nonexistent/path/config.yaml", nil)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load("", nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: "port"},
		{name: "bad fetch mode", mutate: func(c *Config) { c.FetchMode = "curl" }, wantErr: "fetch-mode"},
		{name: "unknown source", mutate: func(c *Config) { c.Sources = []string{"monster"} }, wantErr: `unknown source "monster"`},
		{name: "no sources", mutate: func(c *Config) { c.Sources = nil }, wantErr: "at least one source"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "zero attempts", mutate: func(c *Config) { c.RetryAttempts = 0 }, wantErr: "retry-attempts"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: "at least 16"},
		{name: "bad jwt expiry", mutate: func(c *Config) {
			c.JWT.Secret = "0123456789abcdef0123"
			c.JWT.ExpirationHours = 0
		}, wantErr: "JWT_EXPIRATION_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTConfig(t *testing.T) {
	c := JWTConfig{Secret: "0123456789abcdef", ExpirationHours: 2}
	assert.True(t, c.Enabled())
	assert.Equal(t, 2*time.Hour, c.TTL())
	assert.NoError(t, c.normalize())

	assert.False(t, JWTConfig{}.Enabled())
}
