package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the console core.
type Config struct {
	// Server
	Port     string `yaml:"port"`
	Host     string `yaml:"host"`
	LogLevel string `yaml:"log_level"`

	// Public (non-tenant) API origin, e.g. http://localhost:8000/api
	PublicAPIURL string `yaml:"public_api_url"`

	// Tenant API origin pattern: {scheme}://{tenantDomain}:{port}{base_path}
	TenantScheme   string `yaml:"tenant_scheme"`
	TenantPort     int    `yaml:"tenant_port"`
	TenantBasePath string `yaml:"tenant_base_path"`

	// HTTP client
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Durable key-value storage
	StoragePath string `yaml:"storage_path"`

	// Login rate limiting
	LoginRatePerSecond float64 `yaml:"login_rate_per_second"`
	LoginRateBurst     int     `yaml:"login_rate_burst"`
}

// Load reads configuration from environment variables, with an optional YAML
// overlay named by CONFIG_FILE. File values win over environment values.
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9600")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// API origins
	config.PublicAPIURL = getEnvOrDefault("PUBLIC_API_URL", "http://localhost:8000/api")
	config.TenantScheme = getEnvOrDefault("TENANT_SCHEME", "http")
	config.TenantBasePath = getEnvOrDefault("TENANT_BASE_PATH", "/api/")

	var err error
	tenantPortStr := getEnvOrDefault("TENANT_PORT", "8000")
	config.TenantPort, err = strconv.Atoi(tenantPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TENANT_PORT: %w", err)
	}

	timeoutStr := getEnvOrDefault("HTTP_TIMEOUT", "30s")
	config.HTTPTimeout, err = time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	// Storage
	config.StoragePath = getEnvOrDefault("STORAGE_PATH", "data/console.db")

	// Rate limiting
	rateStr := getEnvOrDefault("LOGIN_RATE_PER_SECOND", "5")
	config.LoginRatePerSecond, err = strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_SECOND: %w", err)
	}
	burstStr := getEnvOrDefault("LOGIN_RATE_BURST", "10")
	config.LoginRateBurst, err = strconv.Atoi(burstStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_BURST: %w", err)
	}

	// Optional YAML overlay
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if err := config.applyFile(file); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyFile overlays values from a YAML file onto the config.
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, c)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if !isValidURL(c.PublicAPIURL) {
		return fmt.Errorf("invalid public API URL: %s", c.PublicAPIURL)
	}

	if c.TenantScheme != "http" && c.TenantScheme != "https" {
		return fmt.Errorf("tenant scheme must be http or https: %s", c.TenantScheme)
	}
	if c.TenantPort < 1 || c.TenantPort > 65535 {
		return fmt.Errorf("tenant port must be between 1 and 65535: %d", c.TenantPort)
	}
	if !strings.HasPrefix(c.TenantBasePath, "/") || !strings.HasSuffix(c.TenantBasePath, "/") {
		return fmt.Errorf("tenant base path must start and end with a slash: %s", c.TenantBasePath)
	}

	if c.HTTPTimeout < time.Second {
		return fmt.Errorf("HTTP timeout must be at least 1 second, got: %v", c.HTTPTimeout)
	}

	if c.StoragePath == "" {
		return fmt.Errorf("storage path is required")
	}

	if c.LoginRatePerSecond <= 0 {
		return fmt.Errorf("login rate must be positive, got: %v", c.LoginRatePerSecond)
	}
	if c.LoginRateBurst < 1 {
		return fmt.Errorf("login rate burst must be at least 1, got: %d", c.LoginRateBurst)
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func isValidURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsedURL.Scheme != "" && parsedURL.Host != ""
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
