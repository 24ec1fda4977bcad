package user

import (
	"log/slog"
	"time"

	"homeforge/config"
	"homeforge/internal/global/logger"
	"homeforge/internal/global/middleware"
	"homeforge/internal/global/redis"
)

var log *slog.Logger

// limiter is shared by login and register so both draw from one budget per address.
var limiter middleware.Limiter

type ModuleUser struct{}

func (u *ModuleUser) GetName() string {
	return "User"
}

func (u *ModuleUser) Init() {
	log = logger.New("User")

	cfg := config.Get().RateLimit
	max, window := cfg.Max, time.Duration(cfg.WindowMinutes)*time.Minute
	if max <= 0 {
		max = 20
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if redis.Enabled() {
		limiter = middleware.NewRedisLimiter(redis.RedisClient, max, window)
	} else {
		limiter = middleware.NewMemoryLimiter(max, window)
	}
}
