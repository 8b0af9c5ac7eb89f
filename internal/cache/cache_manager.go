package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CacheManager adds read-through helpers on top of a CacheService.
// Cache failures never fail the caller; they are logged and the loader runs.
type CacheManager struct {
	cache  CacheService
	logger *slog.Logger
}

func NewCacheManager(cache CacheService, logger *slog.Logger) *CacheManager {
	return &CacheManager{cache: cache, logger: logger}
}

// CacheOrExecute fills dest from key when cached, otherwise runs fn, stores
// its result under key for ttl and copies it into dest.
func (m *CacheManager) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	err := m.cache.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		m.logger.Warn("Cache read failed, loading from source", "key", key, "error", err)
	}

	value, err := fn()
	if err != nil {
		return err
	}

	if err := m.cache.Set(ctx, key, value, ttl); err != nil {
		m.logger.Warn("Cache write failed", "key", key, "error", err)
	}
	return assign(value, dest)
}

// SafeDelete removes key, logging instead of returning failures.
func (m *CacheManager) SafeDelete(ctx context.Context, key string) {
	if err := m.cache.Delete(ctx, key); err != nil {
		m.logger.Warn("Cache invalidation failed", "key", key, "error", err)
	}
}

// assign copies value into dest through a JSON round trip so cached and
// freshly loaded results have the same shape.
func assign(value, dest interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode loaded value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode loaded value: %w", err)
	}
	return nil
}
