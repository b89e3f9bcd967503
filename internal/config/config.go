// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Store      StoreConfig
	Providers  ProvidersConfig
	Probe      ProbeConfig
	Conversion ConversionConfig
	Freshness  FreshnessConfig
	Cache      CacheConfig
	Log        LogConfig
	UI         UIConfig `mapstructure:"ui"`
}

// StoreConfig holds the local snapshot file settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ProvidersConfig holds the ordered list of rate provider endpoints.
type ProvidersConfig struct {
	URLs       []string `mapstructure:"urls"`
	TimeoutSec int      `mapstructure:"timeout_sec"`
}

// ProbeConfig holds connectivity probe settings.
type ProbeConfig struct {
	URLs       []string `mapstructure:"urls"`
	TimeoutSec int      `mapstructure:"timeout_sec"`
}

// ConversionConfig holds limits applied to conversion requests.
type ConversionConfig struct {
	MaxAmount          float64  `mapstructure:"max_amount"`
	RequiredCurrencies []string `mapstructure:"required_currencies"`
}

// FreshnessConfig holds the staleness threshold for cached data.
type FreshnessConfig struct {
	StaleAfterDays int `mapstructure:"stale_after_days"`
}

// CacheConfig holds the optional shared Redis snapshot cache settings.
type CacheConfig struct {
	RedisAddr string `mapstructure:"redis_addr"` // Empty disables the cache.
	TTLSec    int    `mapstructure:"ttl_sec"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	ClearScreen        bool `mapstructure:"clear_screen"`
	ProgressSteps      int  `mapstructure:"progress_steps"`
	ProgressDurationMs int  `mapstructure:"progress_duration_ms"`
	StatusPauseMs      int  `mapstructure:"status_pause_ms"`
}

// ProviderTimeout returns the per-request timeout for rate providers.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSec) * time.Second
}

// ProbeTimeout returns the per-host timeout for connectivity checks.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSec) * time.Second
}

// CacheTTL returns the TTL of the shared snapshot cache.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.path", "currency_rates.json")
	v.SetDefault("providers.urls", []string{
		"https://api.exchangerate-api.com/v4/latest/USD",
		"https://api.exchangerate-api.com/v4/latest/EUR",
	})
	v.SetDefault("providers.timeout_sec", 10)
	v.SetDefault("probe.urls", []string{
		"https://api.exchangerate-api.com",
		"https://www.google.com",
		"https://www.cloudflare.com",
	})
	v.SetDefault("probe.timeout_sec", 2)
	v.SetDefault("conversion.max_amount", 1_000_000_000)
	v.SetDefault("conversion.required_currencies", []string{"USD", "EUR", "RUB"})
	v.SetDefault("freshness.stale_after_days", 7)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl_sec", 3600)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("ui.clear_screen", true)
	v.SetDefault("ui.progress_steps", 30)
	v.SetDefault("ui.progress_duration_ms", 500)
	v.SetDefault("ui.status_pause_ms", 2000)
}

// LoadConfig reads configuration from an optional config file, environment
// variables, and defaults. The tool runs with no configuration at all.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("FXCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	// Env overrides for list keys arrive as a single space or comma separated string.
	cfg.Providers.URLs = splitList(cfg.Providers.URLs)
	cfg.Probe.URLs = splitList(cfg.Probe.URLs)
	cfg.Conversion.RequiredCurrencies = splitList(cfg.Conversion.RequiredCurrencies)
	for i, code := range cfg.Conversion.RequiredCurrencies {
		cfg.Conversion.RequiredCurrencies[i] = strings.ToUpper(code)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("store.path is required"))
	}

	if len(c.Providers.URLs) == 0 {
		errs = append(errs, fmt.Errorf("providers.urls must list at least one endpoint"))
	}
	if c.Providers.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("providers.timeout_sec must be positive, got %d", c.Providers.TimeoutSec))
	}
	if c.Probe.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("probe.timeout_sec must be positive, got %d", c.Probe.TimeoutSec))
	}

	if c.Conversion.MaxAmount <= 0 {
		errs = append(errs, fmt.Errorf("conversion.max_amount must be positive, got %v", c.Conversion.MaxAmount))
	}
	if c.Freshness.StaleAfterDays <= 0 {
		errs = append(errs, fmt.Errorf("freshness.stale_after_days must be positive, got %d", c.Freshness.StaleAfterDays))
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTLSec <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl_sec must be positive when cache.redis_addr is set, got %d", c.Cache.TTLSec))
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}

	if c.UI.ProgressSteps < 0 || c.UI.ProgressDurationMs < 0 || c.UI.StatusPauseMs < 0 {
		errs = append(errs, fmt.Errorf("ui timings must not be negative"))
	}

	return errors.Join(errs...)
}
