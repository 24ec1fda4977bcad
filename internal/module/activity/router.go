package activity

import (
	"homeforge/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (p *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	r.GET("/projects/activity/recent", middleware.Auth(), ListRecent)
	r.GET("/activity/stream", middleware.Auth(), Stream)
}
