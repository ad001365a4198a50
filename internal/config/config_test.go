package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "market-admin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
backend_base_url: https://api.example.com
session_secret: `+testSecret+`
port: "9090"
allowed_origins: ["http://localhost:5173"]
login_burst: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BackendBaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.LoginBurst)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 100, cfg.MaxConcurrentRequests)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "backend_base_url: https://api.example.com\nsession_secret: "+testSecret+"\n")
	t.Setenv(EnvBackendURL, "http://backend.internal:3000")
	t.Setenv(EnvRedisAddr, "redis:6379")
	t.Setenv(EnvPort, "8181")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend.internal:3000", cfg.BackendBaseURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "8181", cfg.Port)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://api.example.com")
	t.Setenv(EnvSessionSecret, testSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BackendBaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{BackendBaseURL: "https://api.example.com", SessionSecret: testSecret}
		c.setDefaults()
		return c
	}

	cases := map[string]func(*Config){
		"missing backend":   func(c *Config) { c.BackendBaseURL = "" },
		"backend no scheme": func(c *Config) { c.BackendBaseURL = "api.example.com" },
		"short secret":      func(c *Config) { c.SessionSecret = "short" },
		"bad port":          func(c *Config) { c.Port = "http" },
		"bad backend host":  func(c *Config) { c.BackendBaseURL = "https://api_.example.com" },
		"redis no port":     func(c *Config) { c.RedisAddr = "redis" },
	}
	require.NoError(t, valid().Validate())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
