package board

import (
	"homeforge/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (b *ModuleBoard) InitRouter(r *gin.RouterGroup) {
	boardGroup := r.Group("/projects/:id/design-board", middleware.Auth())
	{
		boardGroup.GET("", ListItems)
		boardGroup.POST("/link", AddLink)
		boardGroup.POST("/note", AddNote)
		boardGroup.POST("/photo", AddPhoto)
		boardGroup.DELETE("/:itemId", DeleteItem)
		boardGroup.POST("/:itemId/comments", AddItemComment)
	}
}
