package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Sources.DataAPIURL == "" {
		return errors.New("sources.data_api_url is required")
	}
	if c.Sources.SubgraphURL == "" {
		return errors.New("sources.subgraph_url is required")
	}
	if c.Sources.MaxAttempts < 1 {
		return errors.New("sources.max_attempts must be >= 1")
	}
	if c.Sources.PageSize < 1 {
		return errors.New("sources.page_size must be >= 1")
	}
	if c.Sources.SubgraphPageSize < 1 {
		return errors.New("sources.subgraph_page_size must be >= 1")
	}

	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}

	if c.Database.Enabled() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Refresh.Concurrency < 1 {
		return errors.New("refresh.concurrency must be >= 1")
	}
	for _, addr := range c.Refresh.Addresses {
		if !strings.HasPrefix(addr, "0x") {
			return fmt.Errorf("refresh.addresses: %q is not a 0x-prefixed address", addr)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
