package cache

import (
	"context"
	"fmt"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable, otherwise
// the in-memory store if fallback is allowed. The Redis client is returned so the
// caller can reuse it for health checks; it is nil for the in-memory store.
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, *redis.Client, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis idempotency store", zap.String("host", f.redisConfig.Host))
		return NewRedisIdempotencyStoreWithClient(client, ""), client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Replayed checkouts are only detected per instance.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil, nil
}
