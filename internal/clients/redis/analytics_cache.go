package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

// AnalyticsCache is a read-through JSON cache for analytics payloads.
// Analytics reads tolerate slightly stale data, which is exactly what a
// short-TTL cache trades on.
type AnalyticsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Close() error
}

type analyticsCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewAnalyticsCache connects using REDIS_ADDR; callers treat a missing addr
// as "run without a cache".
func NewAnalyticsCache(log *logger.Logger, ttl time.Duration) (AnalyticsCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = 60 * time.Second
	}

	return &analyticsCache{
		log: log.With("client", "RedisAnalyticsCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *analyticsCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, fmt.Errorf("analytics cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A stale or incompatible payload is a miss, not an error.
		c.log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *analyticsCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("analytics cache not initialized")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *analyticsCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
