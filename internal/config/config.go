// Package config loads settings from defaults, an optional config file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/notify"
	"github.com/jonathan/internmatch/internal/recommend"
	"github.com/jonathan/internmatch/internal/sources"
)

// Fetch modes.
const (
	FetchModeBrowser = "browser"
	FetchModeHTTP    = "http"
)

// Config is the full runtime configuration.
type Config struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
	Debug          bool     `mapstructure:"debug"`
	JSON           bool     `mapstructure:"json"`

	// Sources lists primary adapters by registry name.
	Sources        []string      `mapstructure:"sources"`
	FetchMode      string        `mapstructure:"fetch-mode"`
	Concurrency    int           `mapstructure:"concurrency"`
	MaxPages       int           `mapstructure:"max-pages"`
	NavTimeout     time.Duration `mapstructure:"navigation-timeout"`
	ReadyTimeout   time.Duration `mapstructure:"ready-timeout"`
	RetryAttempts  int           `mapstructure:"retry-attempts"`
	RetryBackoff   time.Duration `mapstructure:"retry-backoff"`
	Dedupe         bool          `mapstructure:"dedupe"`
	PerSourceLimit int           `mapstructure:"per-source-limit"`
	MaxResults     int           `mapstructure:"max-results"`
	HostRPS        float64       `mapstructure:"host-rps"`
	HostBurst      int           `mapstructure:"host-burst"`
	ChromePath     string        `mapstructure:"chrome-path"`
	Headful        bool          `mapstructure:"headful"`

	// RateLimit is requests per second allowed per client on the HTTP API.
	RateLimit      float64 `mapstructure:"rate-limit"`
	RateLimitBurst int     `mapstructure:"rate-limit-burst"`

	Twilio TwilioConfig `mapstructure:"twilio"`
	Google GoogleConfig `mapstructure:"google"`
	JWT    JWTConfig    `mapstructure:"jwt"`
}

// TwilioConfig holds SMS provider credentials. All three are needed to send.
type TwilioConfig struct {
	AccountSID  string `mapstructure:"account-sid"`
	AuthToken   string `mapstructure:"auth-token"`
	PhoneNumber string `mapstructure:"phone-number"`
	CountryCode string `mapstructure:"country-code"`
}

// GoogleConfig holds Custom Search credentials for the fallback source.
type GoogleConfig struct {
	APIKey string `mapstructure:"api-key"`
	CX     string `mapstructure:"cx"`
}

// Enabled reports whether both credentials are set.
func (g GoogleConfig) Enabled() bool {
	return g.APIKey != "" && g.CX != ""
}

// env maps config keys to the environment variables that set them.
var env = map[string]string{
	"port":                 "PORT",
	"allowed-origins":      "ALLOWED_ORIGINS",
	"debug":                "DEBUG",
	"json":                 "LOG_JSON",
	"sources":              "SOURCES",
	"fetch-mode":           "FETCH_MODE",
	"concurrency":          "CONCURRENCY",
	"max-pages":            "MAX_PAGES",
	"navigation-timeout":   "NAVIGATION_TIMEOUT",
	"ready-timeout":        "READY_TIMEOUT",
	"retry-attempts":       "RETRY_ATTEMPTS",
	"retry-backoff":        "RETRY_BACKOFF",
	"dedupe":               "DEDUPE",
	"per-source-limit":     "PER_SOURCE_LIMIT",
	"max-results":          "MAX_RESULTS",
	"host-rps":             "HOST_RPS",
	"host-burst":           "HOST_BURST",
	"chrome-path":          "CHROME_PATH",
	"headful":              "HEADFUL",
	"rate-limit":           "RATE_LIMIT",
	"rate-limit-burst":     "RATE_LIMIT_BURST",
	"twilio.account-sid":   "TWILIO_ACCOUNT_SID",
	"twilio.auth-token":    "TWILIO_AUTH_TOKEN",
	"twilio.phone-number":  "TWILIO_PHONE_NUMBER",
	"twilio.country-code":  "TWILIO_COUNTRY_CODE",
	"google.api-key":       "GOOGLE_SEARCH_API_KEY",
	"google.cx":            "GOOGLE_SEARCH_CX",
	"jwt.secret":           "JWT_SECRET",
	"jwt.expiration-hours": "JWT_EXPIRATION_HOURS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("allowed-origins", []string{"*"})
	v.SetDefault("sources", []string{
		sources.LinkedInName, sources.IndeedName, sources.GlassdoorName,
		sources.InternshalaName, sources.MySchemeName,
	})
	v.SetDefault("fetch-mode", FetchModeBrowser)
	v.SetDefault("concurrency", 4)
	v.SetDefault("max-pages", fetch.DefaultMaxPages)
	v.SetDefault("navigation-timeout", fetch.DefaultNavigationTimeout)
	v.SetDefault("ready-timeout", fetch.DefaultReadyTimeout)
	v.SetDefault("retry-attempts", 1)
	v.SetDefault("retry-backoff", 2*time.Second)
	v.SetDefault("per-source-limit", 10)
	v.SetDefault("max-results", recommend.DefaultMaxResults)
	v.SetDefault("host-rps", 1.0)
	v.SetDefault("host-burst", 2)
	v.SetDefault("rate-limit", 2.0)
	v.SetDefault("rate-limit-burst", 5)
	v.SetDefault("twilio.country-code", notify.DefaultCountryCode)
	v.SetDefault("jwt.expiration-hours", DefaultJWTExpirationHours)
}

// Load reads configuration. path may be empty, in which case only defaults,
// the environment and flags are used. Flags whose names match a config key
// override everything else when they were set explicitly.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if _, known := env[f.Name]; known && bindErr == nil {
				bindErr = v.BindPFlag(f.Name, f)
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Sources = splitList(cfg.Sources)
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)
	return &cfg, nil
}

// splitList accepts both YAML lists and comma-separated strings.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.FetchMode != FetchModeBrowser && c.FetchMode != FetchModeHTTP {
		return fmt.Errorf("config error: 'fetch-mode' must be %q or %q, got %q", FetchModeBrowser, FetchModeHTTP, c.FetchMode)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("config error: at least one source is required")
	}
	registry := sources.DefaultRegistry()
	for _, name := range c.Sources {
		if !registry.Has(name) {
			return fmt.Errorf("config error: unknown source %q (known: %s)", name, strings.Join(registry.Names(), ", "))
		}
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("config error: 'concurrency' must be at least 1")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("config error: 'max-pages' must be at least 1")
	}
	if c.NavTimeout <= 0 || c.ReadyTimeout <= 0 {
		return fmt.Errorf("config error: timeouts must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("config error: 'retry-attempts' must be at least 1")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("config error: 'retry-backoff' must be non-negative")
	}
	if c.PerSourceLimit < 0 || c.MaxResults < 0 {
		return fmt.Errorf("config error: limits must be non-negative")
	}
	if c.RateLimit < 0 || c.HostRPS < 0 {
		return fmt.Errorf("config error: rates must be non-negative")
	}
	if c.JWT.Secret != "" {
		if err := c.JWT.normalize(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

// Notifier returns the notification provider settings.
func (c *Config) Notifier() notify.TwilioConfig {
	return notify.TwilioConfig{
		AccountSID:  c.Twilio.AccountSID,
		AuthToken:   c.Twilio.AuthToken,
		FromNumber:  c.Twilio.PhoneNumber,
		CountryCode: c.Twilio.CountryCode,
	}
}

// Pool returns the page pool settings.
func (c *Config) Pool() fetch.PoolConfig {
	return fetch.PoolConfig{
		MaxPages:          c.MaxPages,
		NavigationTimeout: c.NavTimeout,
		ReadyTimeout:      c.ReadyTimeout,
	}
}
