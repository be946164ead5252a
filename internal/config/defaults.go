package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort             = 8080
	DefaultDataAPIURL       = "https://data-api.polymarket.com"
	DefaultSubgraphURL      = "https://api.goldsky.com/api/public/project_cl6mb8i9h0003e201j6li0diw/subgraphs/pnl-subgraph/0.0.14/gn"
	DefaultTimeout          = 10 * time.Second
	DefaultMaxAttempts      = 3
	DefaultRetryBackoff     = 1 * time.Second
	DefaultPageDelay        = 300 * time.Millisecond
	DefaultPageSize         = 500
	DefaultSubgraphPageSize = 1000
	DefaultCacheTTL         = 5 * time.Minute
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultRefreshInterval  = 30 * time.Minute
	DefaultRefreshWorkers   = 2
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}

	// Source defaults
	if c.Sources.DataAPIURL == "" {
		c.Sources.DataAPIURL = DefaultDataAPIURL
	}
	if c.Sources.SubgraphURL == "" {
		c.Sources.SubgraphURL = DefaultSubgraphURL
	}
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = DefaultTimeout
	}
	if c.Sources.MaxAttempts == 0 {
		c.Sources.MaxAttempts = DefaultMaxAttempts
	}
	if c.Sources.RetryBackoff == 0 {
		c.Sources.RetryBackoff = DefaultRetryBackoff
	}
	if c.Sources.PageDelay == 0 {
		c.Sources.PageDelay = DefaultPageDelay
	}
	if c.Sources.PageSize == 0 {
		c.Sources.PageSize = DefaultPageSize
	}
	if c.Sources.SubgraphPageSize == 0 {
		c.Sources.SubgraphPageSize = DefaultSubgraphPageSize
	}

	// Cache defaults
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}

	// Database defaults (only meaningful when a host is set)
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Refresh defaults
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}
	if c.Refresh.Concurrency == 0 {
		c.Refresh.Concurrency = DefaultRefreshWorkers
	}
}
