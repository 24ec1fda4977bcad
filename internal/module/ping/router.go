package ping

import (
	"homeforge/internal/global/database"
	"homeforge/internal/global/redis"
	"homeforge/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		ctx := c.Request.Context()
		sqlDB, err := database.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Error("database ping failed", "error", err)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		result := gin.H{
			"message": "pong",
			"version": Version,
		}
		if redis.Enabled() {
			result["redis"] = redis.RedisClient.Ping(ctx).Err() == nil
		}
		response.Success(c, result)
	})
}
