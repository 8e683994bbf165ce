package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultCheckoutDelay is the simulated payment latency.
	DefaultCheckoutDelay = 1500 * time.Millisecond

	// DefaultToastDuration is how long a notification stays on screen.
	DefaultToastDuration = 3 * time.Second
)

// Config holds all petshop configuration.
type Config struct {
	Name string `yaml:"name"`

	Logging  LoggingConfig  `yaml:"logging"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Checkout CheckoutConfig `yaml:"checkout"`
	UI       UIConfig       `yaml:"ui"`
}

// CatalogConfig selects the catalog data source.
type CatalogConfig struct {
	// Path to a catalog YAML file. Empty uses the embedded catalog.
	Path string `yaml:"path"`
}

// CheckoutConfig configures the simulated checkout.
type CheckoutConfig struct {
	Delay          string `yaml:"delay"`           // e.g. "1500ms"
	DefaultPayment string `yaml:"default_payment"` // card, pix
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Theme         string `yaml:"theme"` // auto, light, dark
	ToastDuration string `yaml:"toast_duration"`
}

// envOverrides lists the environment variables that take precedence over
// the config file.
type envOverrides struct {
	LogLevel      string        `env:"PETSHOP_LOG_LEVEL"`
	LogFile       string        `env:"PETSHOP_LOG_FILE"`
	CatalogPath   string        `env:"PETSHOP_CATALOG"`
	CheckoutDelay time.Duration `env:"PETSHOP_CHECKOUT_DELAY"`
	Theme         string        `env:"PETSHOP_THEME"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "petshop",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Checkout: CheckoutConfig{
			Delay:          DefaultCheckoutDelay.String(),
			DefaultPayment: "card",
		},
		UI: UIConfig{
			Theme:         "auto",
			ToastDuration: DefaultToastDuration.String(),
		},
	}
}

// DefaultConfigPath returns .petshop/config.yaml under the working directory.
func DefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Join(wd, ".petshop", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment variables are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	if o.CatalogPath != "" {
		c.Catalog.Path = o.CatalogPath
	}
	if o.CheckoutDelay > 0 {
		c.Checkout.Delay = o.CheckoutDelay.String()
	}
	if o.Theme != "" {
		c.UI.Theme = o.Theme
	}
	return nil
}

// GetCheckoutDelay returns the checkout delay, falling back to the default
// for empty or malformed values.
func (c *Config) GetCheckoutDelay() time.Duration {
	if d, err := time.ParseDuration(c.Checkout.Delay); err == nil && d >= 0 {
		return d
	}
	return DefaultCheckoutDelay
}

// GetToastDuration returns how long notifications stay visible.
func (c *Config) GetToastDuration() time.Duration {
	if d, err := time.ParseDuration(c.UI.ToastDuration); err == nil && d > 0 {
		return d
	}
	return DefaultToastDuration
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	if c.Checkout.Delay != "" {
		d, err := time.ParseDuration(c.Checkout.Delay)
		if err != nil {
			return fmt.Errorf("invalid checkout delay: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("checkout delay must not be negative")
		}
	}
	switch c.Checkout.DefaultPayment {
	case "", "card", "pix":
	default:
		return fmt.Errorf("invalid default payment %q", c.Checkout.DefaultPayment)
	}
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui theme %q", c.UI.Theme)
	}
	if c.UI.ToastDuration != "" {
		if _, err := time.ParseDuration(c.UI.ToastDuration); err != nil {
			return fmt.Errorf("invalid toast duration: %w", err)
		}
	}
	return nil
}
