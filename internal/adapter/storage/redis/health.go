package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// HealthCheck implements ports.HealthChecker for Redis. Besides connectivity
// it makes sure the ledger's scripts are cached, reloading them after a
// server restart or SCRIPT FLUSH.
type HealthCheck struct {
	client goredis.UniversalClient
}

func NewHealthCheck(client goredis.UniversalClient) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.client.Ping(ctx).Err(); err != nil {
		return err
	}

	hashes := make([]string, len(scripts))
	for i, s := range scripts {
		hashes[i] = s.Hash()
	}
	cached, err := h.client.ScriptExists(ctx, hashes...).Result()
	if err != nil {
		return fmt.Errorf("script exists: %w", err)
	}
	for _, ok := range cached {
		if !ok {
			return loadScripts(ctx, h.client)
		}
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "redis"
}
