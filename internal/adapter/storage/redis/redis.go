package redis

import (
	"context"
	"fmt"

	"asset-exchange/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// scripts are the Lua scripts the ledger's Redis adapters run.
var scripts = []*goredis.Script{claimDue, slidingWindow}

// NewClient connects to Redis, verifies connectivity and loads the ledger's
// Lua scripts so a server without scripting support is rejected at startup.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	if err := loadScripts(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Int("scripts", len(scripts)).
		Msg("Redis connection established")

	return client, nil
}

func loadScripts(ctx context.Context, client goredis.Scripter) error {
	for _, s := range scripts {
		if err := s.Load(ctx, client).Err(); err != nil {
			return fmt.Errorf("loading redis script %s: %w", s.Hash(), err)
		}
	}
	return nil
}
