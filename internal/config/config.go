package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the apicat configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API keys accepted by the local HTTP surface.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds data API connection settings.
type CatalogConfig struct {
	BaseURL    string `yaml:"base_url"`
	Workspace  string `yaml:"workspace"`
	Token      string `yaml:"token"` // bearer token; empty = unauthenticated session
	PageSize   int    `yaml:"page_size"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Specification cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverLRU    = "lru"
	CacheDriverRedis  = "redis"
)

// CacheConfig holds specification cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory, lru, redis (default: memory)
	Size             int      `yaml:"size"`   // lru only
	TTLSec           int      `yaml:"ttl_sec"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Override adjusts a decoded configuration before defaults and validation,
// e.g. with command-line flags.
type Override func(*Config)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string, overrides ...Override) (Config, error) {
	return LoadFile(findConfigPath(env), overrides...)
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string, overrides ...Override) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data, overrides...)
}

// Parse decodes YAML after substituting ${VAR} references, applies
// overrides and defaults, then validates.
func Parse(data []byte, overrides ...Override) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	for _, o := range overrides {
		o(&cfg)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default builds a configuration from the environment and defaults alone,
// for running without a config file.
func Default(overrides ...Override) (Config, error) {
	cfg := Config{
		Catalog: CatalogConfig{
			BaseURL:   os.Getenv("APICAT_BASE_URL"),
			Workspace: os.Getenv("APICAT_WORKSPACE"),
			Token:     os.Getenv("APICAT_TOKEN"),
		},
	}
	for _, o := range overrides {
		o(&cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsNotExist reports whether err came from a missing config file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Catalog.Workspace == "" {
		c.Catalog.Workspace = "default"
	}
	if c.Catalog.PageSize <= 0 {
		c.Catalog.PageSize = 50
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 30
	}
	c.Catalog.BaseURL = strings.TrimRight(c.Catalog.BaseURL, "/")

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverMemory
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 256
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "apicat:spec:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}

	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog.base_url must be an absolute http(s) URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.PageSize > 1000 {
		return fmt.Errorf("catalog.page_size must be at most 1000, got %d", c.Catalog.PageSize)
	}
	if c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverLRU:
	case CacheDriverRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\", \"lru\" or \"redis\", got %q", c.Cache.Driver)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
