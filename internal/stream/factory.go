package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	connect "github.com/supporteval/judge-agent/internal/redis"
	"github.com/supporteval/judge-agent/internal/setup"
	"github.com/supporteval/judge-agent/internal/stream/redis"
)

type Config struct {
	Provider    string // redis for now; kafka, sqs later
	RedisConfig *redis.StreamConfig
}

func NewConsumer(
	ctx context.Context,
	cfg *Config,
	deps *setup.Dependencies,
	logger *zerolog.Logger,
) (Consumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := connect.Connect(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
		)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, deps, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
