package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"homeforge/internal/global/logger"
	"homeforge/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter counts attempts per key. Allow reports whether one more attempt fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps a rolling window of attempt timestamps per key.
type MemoryLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	attempts map[string][]time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:      max,
		window:   window,
		now:      time.Now,
		attempts: make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.attempts[key] = kept
		return false, nil
	}
	l.attempts[key] = append(kept, now)

	// drop idle keys so the map does not grow with every address ever seen
	if len(l.attempts) > 4096 {
		for k, ts := range l.attempts {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(l.attempts, k)
			}
		}
	}
	return true, nil
}

// RedisLimiter is a fixed-window counter shared by every server process.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window, prefix: "homeforge:ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	k := l.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.max), nil
}

// RateLimit answers 429 once the client address has used up its attempts. Handlers sharing
// one limiter share one budget. A failing limiter lets the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	log := logger.New("RateLimit")
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			response.Fail(c, response.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
