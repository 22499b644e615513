package cache

import (
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks the store implementation from configuration:
// Redis when enabled and reachable, the in-memory store otherwise. Falling
// back is safe because the store is only a fast path in front of the
// database constraint.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore()
	}

	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store
}
