package project

import (
	"homeforge/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (p *ModuleProject) InitRouter(r *gin.RouterGroup) {
	projectGroup := r.Group("/projects", middleware.Auth())
	{
		projectGroup.GET("", ListProjects)
		projectGroup.POST("", CreateProject)
		projectGroup.GET("/:id", GetProject)
		projectGroup.PUT("/:id", UpdateProject)
		projectGroup.DELETE("/:id", DeleteProject)

		projectGroup.POST("/:id/photos", UploadPhotos)
		projectGroup.DELETE("/:id/photos/:photoId", DeletePhoto)
		projectGroup.POST("/:id/comments", AddProjectComment)
	}
}
