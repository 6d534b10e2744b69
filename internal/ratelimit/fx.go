package ratelimit

import (
	"strings"

	"github.com/inspirationparticle/utro/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(newRedisClient),
	fx.Provide(NewTokenBucket),
	fx.Provide(NewLoginLimiter),
)

func newRedisClient(cfg config.Config) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})
}
