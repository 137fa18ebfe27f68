// Package config loads application configuration from file, environment
// and defaults for the API server and the embedded donation core.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	GitHub      GitHubConfig      `mapstructure:"github"`
	Facilitator FacilitatorConfig `mapstructure:"facilitator"`
}

// AppConfig holds application-level configuration. Mode selects the
// network availability policy: "production" restricts to mainnets.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// GitHubConfig holds settings for the GitHub collaborator.
type GitHubConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	RawBaseURL string        `mapstructure:"raw_base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// FacilitatorConfig holds settings for the settlement facilitator.
type FacilitatorConfig struct {
	URL                 string        `mapstructure:"url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"`
}

// Default returns the built-in configuration, identical to what Load
// produces when no file or environment overrides apply.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "gives",
			Mode:    "development",
			BaseURL: "https://x402.gives",
		},
		Server: ServerConfig{Port: "8080"},
		Logger: LoggerConfig{Level: "info", Encoding: "json"},
		GitHub: GitHubConfig{
			APIBaseURL: "https://api.github.com",
			RawBaseURL: "https://raw.githubusercontent.com",
			Timeout:    10 * time.Second,
			CacheTTL:   5 * time.Minute,
		},
		Facilitator: FacilitatorConfig{
			URL:                 "https://facilitator.x402x.dev",
			Timeout:             30 * time.Second,
			ConfirmationTimeout: 60 * time.Second,
		},
	}
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "gives")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.base_url", "https://x402.gives")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("github.api_base_url", "https://api.github.com")
	v.SetDefault("github.raw_base_url", "https://raw.githubusercontent.com")
	v.SetDefault("github.timeout", "10s")
	v.SetDefault("github.cache_ttl", "5m")
	v.SetDefault("facilitator.url", "https://facilitator.x402x.dev")
	v.SetDefault("facilitator.timeout", "30s")
	v.SetDefault("facilitator.confirmation_timeout", "60s")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("GIVES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
