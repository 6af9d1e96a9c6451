// Package config loads process-wide configuration from the environment and
// an optional kperp.yaml file. The loaded struct is immutable after Load and
// passed explicitly to every collaborator.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for KP ERP.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Session SessionConfig `mapstructure:"session"`
	AI      AIConfig      `mapstructure:"ai"`
}

// ServerConfig configures the HTTP listener and template location.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// StoreConfig holds the WooCommerce REST API credentials. All three fields
// are required; Validate fails startup when any is missing.
type StoreConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
}

// SessionConfig configures the signed session cookie.
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// AIConfig configures the data-sync assistant. An empty APIKey is not a
// startup error; the verify action reports it at call time instead.
type AIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

var (
	current *Config
	mu      sync.RWMutex
)

// Load reads configuration from KPERP_* environment variables and, when
// present, a kperp.yaml in the working directory or /etc/kperp.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.templates_dir", "templates")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.endpoint", "https://generativelanguage.googleapis.com/v1beta")

	// Keys without a real default still need registering, or AutomaticEnv
	// will not surface them through Unmarshal.
	v.SetDefault("store.base_url", "")
	v.SetDefault("store.consumer_key", "")
	v.SetDefault("store.consumer_secret", "")
	v.SetDefault("session.secret", "")
	v.SetDefault("ai.api_key", "")

	v.SetConfigName("kperp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/kperp")

	v.SetEnvPrefix("KPERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Missing session secret gets a random per-process value so dev setups
	// work out of the box. Sessions then do not survive a restart.
	if cfg.Session.Secret == "" {
		b := make([]byte, 32)
		rand.Read(b)
		cfg.Session.Secret = hex.EncodeToString(b)
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 24 * time.Hour
	}

	mu.Lock()
	current = cfg
	mu.Unlock()
	return cfg, nil
}

// Validate checks the required commerce credentials. AI credentials are
// deliberately not checked here.
func (c *Config) Validate() error {
	var missing []string
	if c.Store.BaseURL == "" {
		missing = append(missing, "store.base_url")
	}
	if c.Store.ConsumerKey == "" {
		missing = append(missing, "store.consumer_key")
	}
	if c.Store.ConsumerSecret == "" {
		missing = append(missing, "store.consumer_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("woocommerce API credentials are not set: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Get returns the last loaded configuration, or nil before Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
