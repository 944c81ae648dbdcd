package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORE_URL", "STORE_API_KEY", "LISTEN_ADDR",
		"JWT_SECRET", "JWT_ISS", "JWT_AUD", "JWT_EXPIRY",
		"STORE_TIMEOUT", "ENABLE_METRICS", "CONSOLE_CONFIG",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	os.Setenv("CONSOLE_CONFIG", "/nonexistent/console.yaml")
	defer clearEnv(t)

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected default LISTEN_ADDR, got %s", cfg.ListenAddr)
	}
	if cfg.JWTSecret != "your-secret-key-change-in-production" {
		t.Errorf("Expected default JWT_SECRET, got %s", cfg.JWTSecret)
	}
	if cfg.JWTIssuer != "radio-fleet-console" {
		t.Errorf("Expected default JWT_ISS, got %s", cfg.JWTIssuer)
	}
	if cfg.JWTAudience != "radio-fleet-console" {
		t.Errorf("Expected default JWT_AUD, got %s", cfg.JWTAudience)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("Expected default JWT_EXPIRY, got %v", cfg.JWTExpiry)
	}
	if cfg.StoreTimeout != 15*time.Second {
		t.Errorf("Expected default store timeout, got %v", cfg.StoreTimeout)
	}
	if cfg.EnableMetrics {
		t.Error("Expected metrics disabled by default")
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	clearEnv(t)
	os.Setenv("CONSOLE_CONFIG", "/nonexistent/console.yaml")
	os.Setenv("STORE_URL", "https://store.example.com")
	os.Setenv("STORE_API_KEY", "test-key")
	os.Setenv("LISTEN_ADDR", ":9090")
	os.Setenv("JWT_SECRET", "test-secret-key")
	os.Setenv("JWT_ISS", "test-issuer")
	os.Setenv("JWT_AUD", "test-audience")
	os.Setenv("JWT_EXPIRY", "2h")
	os.Setenv("STORE_TIMEOUT", "30s")
	os.Setenv("ENABLE_METRICS", "true")
	defer clearEnv(t)

	cfg := Load()

	if cfg.StoreURL != "https://store.example.com" {
		t.Errorf("Expected STORE_URL from env, got %s", cfg.StoreURL)
	}
	if cfg.StoreAPIKey != "test-key" {
		t.Errorf("Expected STORE_API_KEY from env, got %s", cfg.StoreAPIKey)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected LISTEN_ADDR from env, got %s", cfg.ListenAddr)
	}
	if cfg.JWTSecret != "test-secret-key" {
		t.Errorf("Expected JWT_SECRET from env, got %s", cfg.JWTSecret)
	}
	if cfg.JWTIssuer != "test-issuer" {
		t.Errorf("Expected JWT_ISS from env, got %s", cfg.JWTIssuer)
	}
	if cfg.JWTAudience != "test-audience" {
		t.Errorf("Expected JWT_AUD from env, got %s", cfg.JWTAudience)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("Expected JWT_EXPIRY from env, got %v", cfg.JWTExpiry)
	}
	if cfg.StoreTimeout != 30*time.Second {
		t.Errorf("Expected STORE_TIMEOUT from env, got %v", cfg.StoreTimeout)
	}
	if !cfg.EnableMetrics {
		t.Error("Expected ENABLE_METRICS from env")
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	clearEnv(t)
	defer clearEnv(t)

	path := t.TempDir() + "/console.yaml"
	data := []byte("store_url: https://file.example.com\nlisten_addr: \":7070\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	os.Setenv("CONSOLE_CONFIG", path)

	cfg := Load()

	if cfg.StoreURL != "https://file.example.com" {
		t.Errorf("Expected store URL from file, got %s", cfg.StoreURL)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("Expected listen addr from file, got %s", cfg.ListenAddr)
	}

	// Environment wins over the file
	os.Setenv("STORE_URL", "https://env.example.com")
	cfg = Load()
	if cfg.StoreURL != "https://env.example.com" {
		t.Errorf("Expected env to override file, got %s", cfg.StoreURL)
	}
}

func TestLoadAndValidate(t *testing.T) {
	clearEnv(t)
	os.Setenv("CONSOLE_CONFIG", "/nonexistent/console.yaml")
	defer clearEnv(t)

	// Missing store URL
	if _, err := LoadAndValidate(); err == nil {
		t.Error("LoadAndValidate() should fail without STORE_URL")
	}

	// Relative store URL
	os.Setenv("STORE_URL", "not-a-url")
	os.Setenv("STORE_API_KEY", "test-key")
	if _, err := LoadAndValidate(); err == nil {
		t.Error("LoadAndValidate() should reject a relative STORE_URL")
	}

	// Missing API key
	os.Setenv("STORE_URL", "https://store.example.com")
	os.Unsetenv("STORE_API_KEY")
	if _, err := LoadAndValidate(); err == nil {
		t.Error("LoadAndValidate() should fail without STORE_API_KEY")
	}

	// Valid configuration
	os.Setenv("STORE_API_KEY", "test-key")
	cfg, err := LoadAndValidate()
	if err != nil {
		t.Errorf("LoadAndValidate() failed with valid config: %v", err)
	}
	if cfg == nil {
		t.Error("LoadAndValidate() returned nil config with valid config")
	}

	// Bad timeout
	os.Setenv("STORE_TIMEOUT", "-5s")
	if _, err := LoadAndValidate(); err == nil {
		t.Error("LoadAndValidate() should reject a negative timeout")
	}
}
