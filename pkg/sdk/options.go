package searchintent

import (
	"log/slog"
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

type clientConfig struct {
	entities     *Entities
	entitiesFile string
	postgresDSN  string

	redisAddr     string
	redisPassword string
	cacheTTL      time.Duration

	precedence    []string
	overrides     map[string]string
	lookupTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEntities serves lookups from an in-memory directory.
func WithEntities(e Entities) Option {
	return optionFunc(func(c *clientConfig) {
		c.entities = &e
	})
}

// WithEntitiesFile serves lookups from a YAML seed file with places,
// categories and brands lists.
func WithEntitiesFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.entitiesFile = path
	})
}

// WithPostgres serves lookups from the places, categories and brands tables.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresDSN = dsn
	})
}

// WithRedisCache caches lookups in Redis or Valkey for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
		c.cacheTTL = ttl
	})
}

// WithPrecedence sets the tie-break order between kinds,
// e.g. WithPrecedence("brand", "category", "place"). Default: place, category, brand.
func WithPrecedence(kinds ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.precedence = kinds
	})
}

// WithSlugOverrides adds or replaces entries of the singular token to
// category slug table, e.g. {"kettle": "electric-kettles"}.
func WithSlugOverrides(overrides map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.overrides = overrides
	})
}

// WithLookupTimeout bounds each entity lookup. Default: 300ms.
func WithLookupTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lookupTimeout = d
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
