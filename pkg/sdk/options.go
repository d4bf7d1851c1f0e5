package apicat

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Specification cache drivers.
const (
	cacheMemory = "memory"
	cacheLRU    = "lru"
	cacheRedis  = "redis"
)

type clientConfig struct {
	workspace  string
	token      string
	pageSize   int
	timeout    time.Duration
	httpClient *http.Client

	cacheDriver   string
	cacheSize     int
	cacheTTL      time.Duration
	redisAddrs    []string
	redisPassword string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithWorkspace selects the catalog workspace. Defaults to "default".
func WithWorkspace(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.workspace = name
	})
}

// WithToken sets the bearer token. Without it the client is
// unauthenticated and browsers wait until SetAuthenticated(true).
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = token
	})
}

// WithPageSize sets the number of items requested per page ($top).
// Default: 50, maximum 1000.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithTimeout bounds every data API request. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for data API calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLRUCache keeps at most size downloaded specifications in process,
// each for ttl (0 = no expiry). The default cache is unbounded.
func WithLRUCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheLRU
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithRedisCache shares downloaded specifications through Redis.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheRedis
		c.redisAddrs = []string{addr}
		c.redisPassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
