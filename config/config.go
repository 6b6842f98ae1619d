// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Priority: env vars (YTBRIDGE_*) > config file > defaults.
type Config struct {
	// ListenAddr is the gateway listen address.
	ListenAddr string `mapstructure:"listen_addr"`

	// ClientSecretsFile is the OAuth2 client registration downloaded
	// from the API console.
	ClientSecretsFile string `mapstructure:"client_secrets_file"`
	// TokenFile is where the user credential is persisted.
	TokenFile string `mapstructure:"token_file"`
	// Headless disables the interactive authorization flow.
	Headless bool `mapstructure:"headless"`

	// SearchLimit is the default number of search results.
	SearchLimit int64 `mapstructure:"search_limit"`
	// LikedLimit is the default number of liked videos returned.
	LikedLimit int64 `mapstructure:"liked_limit"`
	// RecommendLimit is the default number of recommendations.
	RecommendLimit int `mapstructure:"recommend_limit"`

	// RequestTimeout bounds each inbound request end to end.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// MaxRetries is the maximum number of retries for remote calls.
	MaxRetries int `mapstructure:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries.
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries.
	MaxBackoff time.Duration `mapstructure:"max_backoff"`

	// RequestsPerSecond caps outbound Data API calls.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8000",
		ClientSecretsFile: "client_secret.json",
		TokenFile:         defaultTokenPath(),
		SearchLimit:       5,
		LikedLimit:        10,
		RecommendLimit:    10,
		RequestTimeout:    30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		RequestsPerSecond: 5,
	}
}

// Load reads configuration from the given file (optional), environment
// variables, and defaults, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("client_secrets_file", defaults.ClientSecretsFile)
	v.SetDefault("token_file", defaults.TokenFile)
	v.SetDefault("headless", false)
	v.SetDefault("search_limit", defaults.SearchLimit)
	v.SetDefault("liked_limit", defaults.LikedLimit)
	v.SetDefault("recommend_limit", defaults.RecommendLimit)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("initial_backoff", defaults.InitialBackoff)
	v.SetDefault("max_backoff", defaults.MaxBackoff)
	v.SetDefault("requests_per_second", defaults.RequestsPerSecond)

	v.SetEnvPrefix("YTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ytbridge")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ytbridge"))
		// Config file is optional when not named explicitly.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.ClientSecretsFile == "" {
		return fmt.Errorf("client_secrets_file must not be empty")
	}
	if c.TokenFile == "" {
		return fmt.Errorf("token_file must not be empty")
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be at least 1")
	}
	if c.LikedLimit < 1 {
		return fmt.Errorf("liked_limit must be at least 1")
	}
	if c.RecommendLimit < 1 {
		return fmt.Errorf("recommend_limit must be at least 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}
	return nil
}

func defaultTokenPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "ytbridge", "token.json")
}
