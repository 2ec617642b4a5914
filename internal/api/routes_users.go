package api

import (
	"github.com/gin-gonic/gin"

	"github.com/userhubio/userhub/internal/handlers"
	"github.com/userhubio/userhub/internal/middleware"
	"github.com/userhubio/userhub/internal/models"
)

func registerUserRoutes(group *gin.RouterGroup, deps Deps) {
	handler := handlers.NewUserHandler(deps.Users)

	users := group.Group("/users")
	users.Use(middleware.Auth(deps.JWT))

	users.GET("", handler.List)
	users.GET("/:id", handler.Get)
	users.GET("/nickname/:nickname", handler.GetByNickname)
	users.PATCH("/:id", handler.Update)

	admin := users.Group("")
	admin.Use(middleware.RequireRole(models.RoleManager, models.RoleAdmin))
	admin.POST("", handler.Create)
	admin.DELETE("/:id", handler.Delete)
	admin.POST("/:id/unlock", handler.Unlock)
}
