package cache

import (
	"context"
	"log/slog"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/config"
)

// Store caches serialized provider responses keyed by endpoint and symbol.
type Store interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a value for the store's configured TTL. Failures are
	// logged, not returned; the cache is best-effort.
	Set(ctx context.Context, key string, value []byte)
	Close() error
}

// New selects the backend: Redis when an address is configured, in-process
// memory otherwise.
func New(cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisAddr == "" {
		logger.Info("cache backend selected", "type", "memory", "ttl", cfg.TTL)
		return NewMemory(cfg.TTL), nil
	}

	logger.Info("cache backend selected", "type", "redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return NewRedis(cfg, logger)
}
