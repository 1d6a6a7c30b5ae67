// Package api assembles the gin engine: middleware, routes and the metrics endpoint.
package api

import (
	"net/http"
	"slices"
	"time"

	"aurachat/backend/internal/api/handler"
	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// RouterConfig collects what NewRouter needs besides the handler.
type RouterConfig struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Log      logrus.FieldLogger
}

// NewRouter builds the engine serving h.
func NewRouter(h *handler.Handler, cfg RouterConfig) *gin.Engine {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(cfg.Metrics.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	h.RegisterRoutes(r)
	return r
}

// OriginAllowed reports whether origin is in the allow list.
func OriginAllowed(allowed []string) func(origin string) bool {
	return func(origin string) bool { return slices.Contains(allowed, origin) }
}
