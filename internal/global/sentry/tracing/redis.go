package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"homeforge/config"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisSentryHook implements redis.Hook.
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	cfg := config.Get()
	return &RedisSentryHook{
		slowThreshold: time.Duration(cfg.Sentry.Tracing.RedisSlowThresholdMs) * time.Millisecond,
	}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return h.trace(ctx, "db.redis", strings.ToUpper(cmd.Name()), func(ctx context.Context) error {
			return next(ctx, cmd)
		})
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, 3)
		for i, cmd := range cmds {
			if i == 3 {
				names = append(names, "...")
				break
			}
			names = append(names, strings.ToUpper(cmd.Name()))
		}
		return h.trace(ctx, "db.redis.pipeline", "PIPELINE: "+strings.Join(names, ", "), func(ctx context.Context) error {
			return next(ctx, cmds)
		})
	}
}

func (h *RedisSentryHook) trace(ctx context.Context, op, desc string, run func(context.Context) error) error {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return run(ctx)
	}
	span := parent.StartChild(op)
	span.Description = desc
	span.SetData("db.system", "redis")

	start := time.Now()
	err := run(span.Context())

	reported := err
	if errors.Is(err, redis.Nil) {
		reported = nil
	}
	finish(span, reported, h.slowThreshold <= 0 || time.Since(start) >= h.slowThreshold)
	return err
}
