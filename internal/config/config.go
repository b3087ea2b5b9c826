// Package config provides configuration management for the pricer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DataSource DataSourceConfig `mapstructure:"data_source"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Blotter    BlotterConfig    `mapstructure:"blotter"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DataSourceConfig holds market data source configuration.
type DataSourceConfig struct {
	BridgeHost string `mapstructure:"bridge_host"`
	BridgePort int    `mapstructure:"bridge_port"`
	UseMock    bool   `mapstructure:"use_mock"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// PricingConfig holds option pricing defaults.
type PricingConfig struct {
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
	DividendYield float64 `mapstructure:"dividend_yield"`
	DefaultVol    float64 `mapstructure:"default_vol"`
}

// BlotterConfig holds order blotter configuration.
type BlotterConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-pricer"
	}
	return filepath.Join(home, ".config", "options-pricer")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
		// No config file: run on defaults.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("data_source.bridge_host", "127.0.0.1")
	v.SetDefault("data_source.bridge_port", 8195)
	v.SetDefault("data_source.use_mock", false)
	v.SetDefault("data_source.timeout_sec", 5)
	v.SetDefault("pricing.risk_free_rate", 0.05)
	v.SetDefault("pricing.dividend_yield", 0.0)
	v.SetDefault("pricing.default_vol", 0.25)
	v.SetDefault("blotter.db_path", filepath.Join(configDir, "blotter.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PRICER_BRIDGE_HOST"); v != "" {
		cfg.DataSource.BridgeHost = v
	}
	if v := os.Getenv("PRICER_BRIDGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.BridgePort = port
		}
	}
	if v := os.Getenv("PRICER_USE_MOCK"); v != "" {
		cfg.DataSource.UseMock = v == "1" || v == "true"
	}
	if v := os.Getenv("PRICER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DataSource.BridgePort <= 0 || c.DataSource.BridgePort > 65535 {
		return fmt.Errorf("data_source.bridge_port out of range: %d", c.DataSource.BridgePort)
	}
	if c.Pricing.DefaultVol <= 0 {
		return fmt.Errorf("pricing.default_vol must be positive: %v", c.Pricing.DefaultVol)
	}
	if c.Blotter.DBPath == "" {
		return fmt.Errorf("blotter.db_path must not be empty")
	}
	return nil
}
