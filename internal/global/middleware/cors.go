package middleware

import (
	"time"

	"homeforge/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors allows the configured origins with credentials. With no origins configured the
// request origin is echoed back, which suits the single-household deployment.
func Cors() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := config.Get().Cors.Origins; len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cfg)
}
