package config

import "time"

// Config is the root configuration for the PnL reconciliation service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Sources  SourcesConfig  `yaml:"sources"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DBConfig       `yaml:"database"`
	Refresh  RefreshConfig  `yaml:"refresh"`
}

// ServerConfig holds the HTTP serving surface settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// SourcesConfig holds the upstream source settings.
type SourcesConfig struct {
	DataAPIURL  string        `yaml:"data_api_url"`
	SubgraphURL string        `yaml:"subgraph_url"`

	Timeout      time.Duration `yaml:"timeout"`       // Per-HTTP-call timeout
	MaxAttempts  int           `yaml:"max_attempts"`  // Tries per page request
	RetryBackoff time.Duration `yaml:"retry_backoff"` // Linear backoff base delay
	PageDelay    time.Duration `yaml:"page_delay"`    // Courtesy delay between pages

	PageSize         int `yaml:"page_size"`          // Data-API page size
	SubgraphPageSize int `yaml:"subgraph_page_size"` // Subgraph first: value
}

// CacheConfig holds the reconciliation-result cache settings. With an
// empty RedisURL the service falls back to the in-process cache.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// DBConfig holds the optional snapshot store connection. A blank host
// disables persistence.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a snapshot store is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// RefreshConfig drives the background refresher that keeps watched
// addresses warm.
type RefreshConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Addresses   []string      `yaml:"addresses"`
}
