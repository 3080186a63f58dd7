package config

import (
	"math"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, rainwater.MethodPrefix, cfg.Method())
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromPath_YAML(t *testing.T) {
	path := writeFile(t, "rainwater.yaml", `
server:
  port: 9090
  cors_origins: ["https://example.com"]
logging:
  level: debug
  format: text
compute:
  method: two-pointer
limits:
  max_heights: 50
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, rainwater.MethodTwoPointer, cfg.Method())
	assert.Equal(t, 50, cfg.Limits.MaxHeights)
	// untouched keys keep their defaults
	assert.Equal(t, 1000, cfg.Limits.MaxBatch)
	assert.Equal(t, 30, cfg.Server.ReadTimeoutSeconds)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "server: [port")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("RAINWATER_PORT", "7070")
	t.Setenv("RAINWATER_METHOD", "two-pointer")
	t.Setenv("RAINWATER_MAX_BATCH", "5")
	t.Setenv("RAINWATER_CORS_ORIGINS", "https://a.test, https://b.test")

	path := writeFile(t, "rainwater.yaml", "server:\n  port: 9090\n")
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, rainwater.MethodTwoPointer, cfg.Method())
	assert.Equal(t, 5, cfg.Limits.MaxBatch)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "RAINWATER_LOG_LEVEL=warn\n")
	t.Setenv("RAINWATER_LOG_LEVEL", "")
	os.Unsetenv("RAINWATER_LOG_LEVEL")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	t.Cleanup(func() { os.Unsetenv("RAINWATER_LOG_LEVEL") })

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown method", func(c *Config) { c.Compute.Method = "stack" }},
		{"zero max heights", func(c *Config) { c.Limits.MaxHeights = 0 }},
		{"zero max batch", func(c *Config) { c.Limits.MaxBatch = 0 }},
		{"negative burst", func(c *Config) { c.Limits.Burst = -1 }},
		{"zero max height", func(c *Config) { c.Limits.MaxHeight = 0 }},
		{"water may overflow", func(c *Config) { c.Limits.MaxHeight = math.MaxInt / 2 }},
		{"bad trusted proxy", func(c *Config) { c.Limits.TrustedProxies = []string{"not-an-ip"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTrustedProxyPrefixes(t *testing.T) {
	limits := LimitsConfig{TrustedProxies: []string{"10.0.0.0/8", " 192.0.2.7 ", "", "2001:db8::/32"}}

	prefixes, err := limits.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)

	assert.True(t, prefixes[0].Contains(netip.MustParseAddr("10.1.2.3")))
	assert.True(t, prefixes[1].Contains(netip.MustParseAddr("192.0.2.7")))
	assert.False(t, prefixes[1].Contains(netip.MustParseAddr("192.0.2.8")))
	assert.True(t, prefixes[2].Contains(netip.MustParseAddr("2001:db8::1")))
}

func TestApplyEnv_LimitsAndProxies(t *testing.T) {
	t.Setenv("RAINWATER_MAX_HEIGHT", "1000")
	t.Setenv("RAINWATER_TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1000, cfg.Limits.MaxHeight)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Limits.TrustedProxies)
}
