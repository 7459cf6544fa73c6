package pending

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config selects and configures a Store backend.
type Config struct {
	// Backend is "memory" or "redis".
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	MaxEntries    int64
}

// New creates the configured store. The Redis backend is pinged before it is
// returned.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStore(cfg.MaxEntries, cfg.TTL)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required for the redis pending backend")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported pending backend: %s", cfg.Backend)
	}
}
