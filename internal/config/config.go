// Package config loads the server configuration from YAML with environment
// overrides, and carries build metadata set through -ldflags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/edirooss/market-admin/pkg/hostutil"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Build metadata, injected with:
//
//	-ldflags "-X github.com/edirooss/market-admin/internal/config.Version=..."
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

const minSessionSecretLen = 32

type Config struct {
	BackendBaseURL        string   `yaml:"backend_base_url"`
	RedisAddr             string   `yaml:"redis_address"`
	ListenAddr            string   `yaml:"listen_address"`
	Port                  string   `yaml:"port"`
	SessionSecret         string   `yaml:"session_secret"`
	IdentityJWTSecret     string   `yaml:"identity_jwt_secret"` // optional; enables signature checks
	AllowedOrigins        []string `yaml:"allowed_origins"`
	LogLevel              string   `yaml:"log_level"`
	MaxConcurrentRequests int      `yaml:"max_concurrent_requests"`
	LoginRatePerSec       float64  `yaml:"login_rate_per_sec"`
	LoginBurst            int      `yaml:"login_burst"`
}

// Environment variables that override the file.
const (
	EnvBackendURL    = "MARKET_ADMIN_BACKEND_URL"
	EnvRedisAddr     = "MARKET_ADMIN_REDIS_ADDR"
	EnvPort          = "MARKET_ADMIN_PORT"
	EnvSessionSecret = "MARKET_ADMIN_SESSION_SECRET"
)

// Load reads path, applies an optional .env file and environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// environment-only deployments
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.BackendBaseURL = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.Port = v
	}
	if v := os.Getenv(EnvSessionSecret); v != "" {
		c.SessionSecret = v
	}
}

func (c *Config) setDefaults() {
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MaxConcurrentRequests <= 0 {
		c.MaxConcurrentRequests = 100
	}
	if c.LoginRatePerSec <= 0 {
		c.LoginRatePerSec = 1
	}
	if c.LoginBurst <= 0 {
		c.LoginBurst = 5
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendBaseURL)
	if c.BackendBaseURL == "" || err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend_base_url: want http(s)://host, got %q", c.BackendBaseURL)
	}
	if err := hostutil.ValidateHost(u.Hostname()); err != nil {
		return fmt.Errorf("backend_base_url: %w", err)
	}
	if err := hostutil.ValidateHostPort(c.RedisAddr); err != nil {
		return fmt.Errorf("redis_address: %w", err)
	}
	if len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("session_secret: must be at least %d bytes", minSessionSecretLen)
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("port: invalid %q", c.Port)
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string { return c.ListenAddr + ":" + c.Port }
