package api

import (
	"github.com/gin-gonic/gin"

	"github.com/userhubio/userhub/internal/handlers"
)

func registerHealthRoutes(group *gin.RouterGroup, deps Deps) {
	handler := handlers.NewHealthHandler(deps.DB)
	group.GET("/health", handler.Check)
}
