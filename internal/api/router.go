// Package api assembles the HTTP surface: middleware ordering, route groups,
// and the Prometheus scrape endpoint.
package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/userhubio/userhub/internal/auth"
	"github.com/userhubio/userhub/internal/middleware"
	"github.com/userhubio/userhub/internal/services"
)

// Deps carries the constructed services the router wires into handlers.
type Deps struct {
	DB    *gorm.DB
	Users *services.UserService
	JWT   *auth.JWTService
	Debug bool
}

// NewRouter builds the gin engine with the full middleware chain and routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, errors.New("api: db is required")
	}
	if deps.Users == nil {
		return nil, errors.New("api: user service is required")
	}
	if deps.JWT == nil {
		return nil, errors.New("api: jwt service is required")
	}

	if deps.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.NoRoute(middleware.NotFoundHandler)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	registerHealthRoutes(apiGroup, deps)
	registerAuthRoutes(apiGroup, deps)
	registerUserRoutes(apiGroup, deps)

	return router, nil
}
