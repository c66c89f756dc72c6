// Package api wires the HTTP surface: middleware, handlers and the metrics endpoint.
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"liquidation-planner/internal/api/handlers"
	"liquidation-planner/internal/api/middleware"
	"liquidation-planner/internal/cache"
	"liquidation-planner/internal/config"
	"liquidation-planner/internal/metrics"
)

// Deps are the long-lived collaborators shared by all handlers.
type Deps struct {
	Config   *config.ServerConfig
	Results  *cache.ResultCache
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler(d.Log))
	router.Use(middleware.CORS(d.Config.AllowedOrigins))
	router.Use(middleware.Logger(d.Log, d.Metrics))

	presetHandler := handlers.NewPresetHandler(d.Config.PresetDir, d.Log)
	solveHandler := handlers.NewSolveHandler(d.Config, presetHandler, d.Results, d.Metrics, d.Log)
	strategyHandler := handlers.NewStrategyHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_solves": d.Results.Len()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.POST("/solve", solveHandler.Solve)
		api.GET("/solve/:id/ledger", solveHandler.GetLedger)
		api.POST("/solve/compare", solveHandler.Compare)

		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/strategies", strategyHandler.ListStrategies)
	}

	serveStatic(router, d.Config.StaticDir, d.Log)
	return router
}

// serveStatic serves a built web UI from dir when it exists, falling back to index.html
// for non-API routes.
func serveStatic(router *gin.Engine, dir string, log zerolog.Logger) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.Debug().Str("dir", dir).Msg("static directory not found, skipping static file serving")
		return
	}

	router.Static("/assets", dir+"/assets")
	router.StaticFile("/favicon.ico", dir+"/favicon.ico")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": handlers.CodeNotFound, "message": "Not found"}})
			return
		}
		c.File(dir + "/index.html")
	})
	log.Info().Str("dir", dir).Msg("serving static files")
}
