package redis

import (
	"context"
	"net"
	"time"

	"homeforge/config"
	"homeforge/internal/global/sentry/tracing"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// RedisClient is nil when no Redis host is configured.
var RedisClient *goredis.Client

func Enabled() bool {
	return RedisClient != nil
}

// Init connects to the configured Redis server. Without a host it leaves RedisClient nil.
func Init() error {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "ping redis")
	}
	RedisClient = client
	return nil
}

func Close() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}
