// Package config loads the rainwater service configuration.
//
// Values are resolved in order: built-in defaults, the YAML file, an optional
// .env file, then RAINWATER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

// DefaultPath is the configuration file read by Load.
var DefaultPath = filepath.Join("config", "rainwater.yaml")

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Compute ComputeConfig `yaml:"compute"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port                int      `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
	CORSOrigins         []string `yaml:"cors_origins"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ComputeConfig selects the default computation method.
type ComputeConfig struct {
	Method string `yaml:"method"`
}

// LimitsConfig bounds request sizes and rates.
type LimitsConfig struct {
	MaxHeights        int `yaml:"max_heights"`
	MaxHeight         int `yaml:"max_height"`
	MaxBatch          int `yaml:"max_batch"`
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`

	// TrustedProxies lists addresses or CIDR ranges whose X-Forwarded-For
	// header is believed when identifying a client for rate limiting.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (l LimitsConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(l.TrustedProxies))
	for _, entry := range l.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// envOverrides mirrors the settings that may come from the environment.
// envdecode only touches fields whose variable is set, so it is seeded with
// the current values before decoding.
type envOverrides struct {
	Port        int    `env:"RAINWATER_PORT"`
	LogLevel    string `env:"RAINWATER_LOG_LEVEL"`
	LogFormat   string `env:"RAINWATER_LOG_FORMAT"`
	Method      string `env:"RAINWATER_METHOD"`
	MaxHeights  int    `env:"RAINWATER_MAX_HEIGHTS"`
	MaxHeight   int    `env:"RAINWATER_MAX_HEIGHT"`
	MaxBatch    int    `env:"RAINWATER_MAX_BATCH"`
	RateLimit   int    `env:"RAINWATER_RATE_LIMIT"`
	RateBurst   int    `env:"RAINWATER_RATE_BURST"`
	CORSOrigins string `env:"RAINWATER_CORS_ORIGINS"`
	Proxies     string `env:"RAINWATER_TRUSTED_PROXIES"`
}

// Default returns a working configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 30,
			IdleTimeoutSeconds:  120,
			CORSOrigins:         []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Compute: ComputeConfig{
			Method: string(rainwater.DefaultMethod),
		},
		Limits: LimitsConfig{
			MaxHeights:        1_000_000,
			MaxHeight:         1_000_000_000,
			MaxBatch:          1000,
			RequestsPerSecond: 100,
			Burst:             200,
		},
	}
}

// Load reads DefaultPath, falling back to defaults when the file is missing.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath)
}

// LoadFromPath reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env (%s): %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from RAINWATER_* environment variables.
func (c *Config) ApplyEnv() error {
	env := envOverrides{
		Port:        c.Server.Port,
		LogLevel:    c.Logging.Level,
		LogFormat:   c.Logging.Format,
		Method:      c.Compute.Method,
		MaxHeights:  c.Limits.MaxHeights,
		MaxHeight:   c.Limits.MaxHeight,
		MaxBatch:    c.Limits.MaxBatch,
		RateLimit:   c.Limits.RequestsPerSecond,
		RateBurst:   c.Limits.Burst,
		CORSOrigins: strings.Join(c.Server.CORSOrigins, ","),
		Proxies:     strings.Join(c.Limits.TrustedProxies, ","),
	}
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("failed to decode environment: %w", err)
	}

	c.Server.Port = env.Port
	c.Logging.Level = env.LogLevel
	c.Logging.Format = env.LogFormat
	c.Compute.Method = env.Method
	c.Limits.MaxHeights = env.MaxHeights
	c.Limits.MaxHeight = env.MaxHeight
	c.Limits.MaxBatch = env.MaxBatch
	c.Limits.RequestsPerSecond = env.RateLimit
	c.Limits.Burst = env.RateBurst
	c.Server.CORSOrigins = splitAndTrimCSV(env.CORSOrigins)
	c.Limits.TrustedProxies = splitAndTrimCSV(env.Proxies)
	return nil
}

// Validate checks that the configuration can run a server.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := rainwater.ParseMethod(c.Compute.Method); err != nil {
		return fmt.Errorf("compute.method: %w", err)
	}
	if c.Limits.MaxHeights <= 0 {
		return fmt.Errorf("limits.max_heights must be positive")
	}
	if c.Limits.MaxBatch <= 0 {
		return fmt.Errorf("limits.max_batch must be positive")
	}
	if c.Limits.MaxHeight <= 0 {
		return fmt.Errorf("limits.max_height must be positive")
	}
	// the water of a full batch must fit in an int
	if c.Limits.MaxHeight > math.MaxInt/c.Limits.MaxHeights/c.Limits.MaxBatch {
		return fmt.Errorf("limits.max_height * limits.max_heights * limits.max_batch overflows int")
	}
	if _, err := c.Limits.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("limits.trusted_proxies: %w", err)
	}
	if c.Limits.RequestsPerSecond < 0 || c.Limits.Burst < 0 {
		return fmt.Errorf("limits.requests_per_second and limits.burst must not be negative")
	}
	return nil
}

// Method returns the parsed default computation method.
func (c *Config) Method() rainwater.Method {
	m, err := rainwater.ParseMethod(c.Compute.Method)
	if err != nil {
		return rainwater.DefaultMethod
	}
	return m
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func splitAndTrimCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
