package api

import (
	"github.com/gin-gonic/gin"

	"github.com/userhubio/userhub/internal/handlers"
	"github.com/userhubio/userhub/internal/middleware"
)

func registerAuthRoutes(group *gin.RouterGroup, deps Deps) {
	handler := handlers.NewAuthHandler(deps.Users, deps.JWT)

	authGroup := group.Group("/auth")
	authGroup.POST("/register", handler.Register)
	authGroup.POST("/login", handler.Login)
	authGroup.POST("/verify", handler.VerifyEmail)
	authGroup.POST("/password", middleware.Auth(deps.JWT), handler.ResetPassword)
}
