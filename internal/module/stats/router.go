package stats

import (
	"homeforge/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (*ModuleStats) InitRouter(r *gin.RouterGroup) {
	statsGroup := r.Group("/stats", middleware.Auth())
	{
		statsGroup.GET("", GetSummary)
		statsGroup.GET("/export", Export)
	}
}
