package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	StoreURL    string `yaml:"store_url"`
	StoreAPIKey string `yaml:"store_api_key"`

	ListenAddr  string        `yaml:"listen_addr"`
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	JWTAudience string        `yaml:"jwt_audience"`
	JWTExpiry   time.Duration `yaml:"jwt_expiry"`

	StoreTimeout  time.Duration `yaml:"store_timeout"`
	EnableMetrics bool          `yaml:"enable_metrics"`
}

// Load builds the configuration in three layers: defaults, an optional YAML
// config file (CONSOLE_CONFIG, default configs/console.yaml when present),
// and environment variables, the environment winning.
func Load() *Config {
	config := &Config{
		ListenAddr:   ":8080",
		JWTSecret:    "your-secret-key-change-in-production",
		JWTIssuer:    "radio-fleet-console",
		JWTAudience:  "radio-fleet-console",
		JWTExpiry:    24 * time.Hour,
		StoreTimeout: 15 * time.Second,
	}

	path := os.Getenv("CONSOLE_CONFIG")
	if path == "" {
		path = "configs/console.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		// A malformed file is ignored; the environment still applies.
		_ = yaml.Unmarshal(data, config)
	}

	config.StoreURL = getEnv("STORE_URL", config.StoreURL)
	config.StoreAPIKey = getEnv("STORE_API_KEY", config.StoreAPIKey)
	config.ListenAddr = getEnv("LISTEN_ADDR", config.ListenAddr)
	config.JWTSecret = getEnv("JWT_SECRET", config.JWTSecret)
	config.JWTIssuer = getEnv("JWT_ISS", config.JWTIssuer)
	config.JWTAudience = getEnv("JWT_AUD", config.JWTAudience)
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.JWTExpiry = d
		}
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreTimeout = d
		}
	}
	if v := os.Getenv("ENABLE_METRICS"); v != "" {
		config.EnableMetrics = v == "true"
	}

	return config
}

// LoadAndValidate loads the configuration and rejects a setup the console
// cannot run with.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if cfg.StoreURL == "" {
		return nil, errors.New("STORE_URL is required")
	}
	if u, err := url.Parse(cfg.StoreURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("STORE_URL %q is not an absolute URL", cfg.StoreURL)
	}
	if cfg.StoreAPIKey == "" {
		return nil, errors.New("STORE_API_KEY is required")
	}
	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("store timeout must be positive, got %v", cfg.StoreTimeout)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
