package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nurpe/tourquote/internal/http/middleware"
	"github.com/nurpe/tourquote/internal/observability"
)

type RouterOptions struct {
	Environment    string
	MetricsEnabled bool
}

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, opts RouterOptions) *gin.Engine {
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	router.Use(middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.MetricsEnabled {
		registry := observability.InitRegistry()
		router.GET("/metrics", gin.WrapH(observability.MetricsHandler(registry)))
	}

	handler.Register(router, authMiddleware)
	return router
}
