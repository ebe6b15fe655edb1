package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
)

type Server struct {
	Port               string `mapstructure:"port"`
	RequestTimeoutSec  int    `mapstructure:"request_timeout_sec"`
	UpstreamTimeoutSec int    `mapstructure:"upstream_timeout_sec"`
	WebhookPath        string `mapstructure:"webhook_path"`
	MaxBodyBytes       int64  `mapstructure:"max_body_bytes"`
}

type AlphaVantage struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Interval       string `mapstructure:"interval"`
	TimeoutSec     int    `mapstructure:"timeout_sec"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryBackoffMs int    `mapstructure:"retry_backoff_ms"`
}

type Yahoo struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSec     int    `mapstructure:"timeout_sec"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryBackoffMs int    `mapstructure:"retry_backoff_ms"`
	UserAgent      string `mapstructure:"user_agent"`
	// Headers go out on every quoteSummary call. Names are case-insensitive.
	Headers map[string]string `mapstructure:"headers"`
	Crumb   string            `mapstructure:"crumb"`
}

type Logging struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or console
	File       string `mapstructure:"file"`   // optional rotated file sink
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Server       Server       `mapstructure:"server"`
	Provider     string       `mapstructure:"provider"`
	AlphaVantage AlphaVantage `mapstructure:"alphavantage"`
	Yahoo        Yahoo        `mapstructure:"yahoo"`
	Logging      Logging      `mapstructure:"logging"`
}

func Default() Config {
	return Config{
		Server: Server{
			Port:               "8080",
			RequestTimeoutSec:  15,
			UpstreamTimeoutSec: 10,
			WebhookPath:        "/webhook",
			MaxBodyBytes:       1 << 20,
		},
		Provider: ProviderAlphaVantage,
		AlphaVantage: AlphaVantage{
			BaseURL:        "https://www.alphavantage.co",
			Interval:       "1min",
			TimeoutSec:     10,
			MaxRetries:     1,
			RetryBackoffMs: 250,
		},
		Yahoo: Yahoo{
			BaseURL:        "https://query2.finance.yahoo.com",
			TimeoutSec:     10,
			MaxRetries:     1,
			RetryBackoffMs: 250,
		},
		Logging: Logging{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration once at startup. Sources, lowest precedence
// first: defaults, config file, .env, process environment. If path is empty,
// config.{yaml,json} is looked up in . and ./configs; a missing file is not
// an error. Environment keys are the config keys upper-cased with dots
// replaced by underscores (SERVER_PORT, ALPHAVANTAGE_API_KEY); PORT is
// accepted as an alias for SERVER_PORT.
func Load(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)
	v.SetDefault("server.upstream_timeout_sec", d.Server.UpstreamTimeoutSec)
	v.SetDefault("server.webhook_path", d.Server.WebhookPath)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("provider", d.Provider)

	v.SetDefault("alphavantage.api_key", d.AlphaVantage.APIKey)
	v.SetDefault("alphavantage.base_url", d.AlphaVantage.BaseURL)
	v.SetDefault("alphavantage.interval", d.AlphaVantage.Interval)
	v.SetDefault("alphavantage.timeout_sec", d.AlphaVantage.TimeoutSec)
	v.SetDefault("alphavantage.max_retries", d.AlphaVantage.MaxRetries)
	v.SetDefault("alphavantage.retry_backoff_ms", d.AlphaVantage.RetryBackoffMs)

	v.SetDefault("yahoo.base_url", d.Yahoo.BaseURL)
	v.SetDefault("yahoo.timeout_sec", d.Yahoo.TimeoutSec)
	v.SetDefault("yahoo.max_retries", d.Yahoo.MaxRetries)
	v.SetDefault("yahoo.retry_backoff_ms", d.Yahoo.RetryBackoffMs)
	v.SetDefault("yahoo.user_agent", d.Yahoo.UserAgent)
	v.SetDefault("yahoo.crumb", d.Yahoo.Crumb)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
}

var intervals = map[string]bool{"1min": true, "5min": true, "15min": true, "30min": true, "60min": true}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if c.Server.RequestTimeoutSec <= 0 {
		return errors.New("server.request_timeout_sec must be positive")
	}
	if c.Server.UpstreamTimeoutSec <= 0 {
		return errors.New("server.upstream_timeout_sec must be positive")
	}
	if !strings.HasPrefix(c.Server.WebhookPath, "/") {
		return fmt.Errorf("server.webhook_path %q must start with /", c.Server.WebhookPath)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}

	switch c.Provider {
	case ProviderAlphaVantage:
		if c.AlphaVantage.APIKey == "" {
			return errors.New("alphavantage.api_key is required (ALPHAVANTAGE_API_KEY)")
		}
		if !intervals[c.AlphaVantage.Interval] {
			return fmt.Errorf("alphavantage.interval %q is not one of 1min, 5min, 15min, 30min, 60min", c.AlphaVantage.Interval)
		}
		if c.AlphaVantage.MaxRetries < 0 || c.AlphaVantage.TimeoutSec <= 0 {
			return errors.New("alphavantage.timeout_sec must be positive and max_retries non-negative")
		}
	case ProviderYahoo:
		if c.Yahoo.MaxRetries < 0 || c.Yahoo.TimeoutSec <= 0 {
			return errors.New("yahoo.timeout_sec must be positive and max_retries non-negative")
		}
	default:
		return fmt.Errorf("provider %q is not one of %s, %s", c.Provider, ProviderAlphaVantage, ProviderYahoo)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}
	return nil
}

func (s Server) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

func (s Server) UpstreamTimeout() time.Duration {
	return time.Duration(s.UpstreamTimeoutSec) * time.Second
}

func (a AlphaVantage) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

func (a AlphaVantage) RetryBackoff() time.Duration {
	return time.Duration(a.RetryBackoffMs) * time.Millisecond
}

func (y Yahoo) Timeout() time.Duration {
	return time.Duration(y.TimeoutSec) * time.Second
}

func (y Yahoo) RetryBackoff() time.Duration {
	return time.Duration(y.RetryBackoffMs) * time.Millisecond
}
