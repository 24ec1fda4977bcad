package space

import (
	"homeforge/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleSpace) InitRouter(r *gin.RouterGroup) {
	spaceGroup := r.Group("/spaces", middleware.Auth())
	spaceGroup.GET("", ListSpaces)
	spaceGroup.POST("", CreateSpace)
	spaceGroup.PUT("/:id", UpdateSpace)
	spaceGroup.DELETE("/:id", DeleteSpace)
}
