package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polyfolio/pnl-data/internal/model"
)

const keyPrefix = "pnl:result:"

// Redis is a Cache backed by a redis instance, for deployments with
// more than one server process. Values are stored as JSON under
// "pnl:result:<address>" with the configured TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a redis-backed cache from a redis URL
// (redis://host:port/db). It pings the instance once so a bad URL
// fails at startup rather than on first request.
func NewRedis(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached result for address, if present. Redis or
// decode errors are logged and treated as a miss.
func (r *Redis) Get(ctx context.Context, address string) (*model.ReconciliationResult, bool) {
	data, err := r.client.Get(ctx, keyPrefix+address).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("redis get failed", "address", address, "error", err)
		}
		return nil, false
	}
	var result model.ReconciliationResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn("cached result corrupt, discarding", "address", address, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores a result for address. Failures are logged, not returned;
// the cache is an optimization and the caller has the result in hand.
func (r *Redis) Set(ctx context.Context, address string, result *model.ReconciliationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn("result marshal failed", "address", address, "error", err)
		return
	}
	if err := r.client.Set(ctx, keyPrefix+address, data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", "address", address, "error", err)
	}
}

// Close releases the underlying redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)
