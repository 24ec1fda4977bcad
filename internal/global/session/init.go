package session

import (
	"fmt"

	"homeforge/config"
	"homeforge/internal/global/database"
	"homeforge/internal/global/redis"
)

// Init selects Default from session.store. It must run after database.Init and redis.Init.
func Init() error {
	switch config.Get().Session.Store {
	case "", "db":
		Default = NewGormStore(database.DB)
	case "redis":
		if !redis.Enabled() {
			return fmt.Errorf("session.store is redis but no redis host is configured")
		}
		Default = NewRedisStore(redis.RedisClient)
	default:
		return fmt.Errorf("unknown session store %q", config.Get().Session.Store)
	}
	return nil
}
