package user

import (
	"homeforge/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	rateLimit := middleware.RateLimit(limiter)

	authGroup.GET("/setup-status", SetupStatus)
	authGroup.POST("/register", rateLimit, middleware.Session(), Register)
	authGroup.POST("/login", rateLimit, Login)
	authGroup.POST("/logout", Logout)

	authGroup.Use(middleware.Auth())
	{
		authGroup.GET("/me", Me)
		authGroup.GET("/users", ListUsers)
		authGroup.PUT("/users/:id", UpdateUser)
	}
}
