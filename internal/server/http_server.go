package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/matchmaker/internal/config"
)

// APIPrefix is the base path every route group mounts under.
const APIPrefix = "/api/v1"

// Registrar is a common interface for all HTTP route registrars.
type Registrar interface {
	Register(api *gin.RouterGroup)
}

// NewRouter builds the engine and mounts all provided registrars under
// the API prefix.
func NewRouter(cfg *config.Config, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group(APIPrefix)
	for _, r := range registrars {
		r.Register(api)
	}

	return router
}

// StartHTTPServer boots the HTTP server and blocks.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	router := NewRouter(cfg, registrars...)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return router.Run(addr)
}
