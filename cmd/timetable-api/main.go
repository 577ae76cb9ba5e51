package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/olsss/timetable-api/api/swagger"
	"github.com/olsss/timetable-api/internal/handler"
	"github.com/olsss/timetable-api/internal/middleware"
	"github.com/olsss/timetable-api/internal/service"
	"github.com/olsss/timetable-api/pkg/cache"
	"github.com/olsss/timetable-api/pkg/config"
	"github.com/olsss/timetable-api/pkg/logger"
	corsmiddleware "github.com/olsss/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/olsss/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Timetable combination search over uploaded course catalogs
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var snapshots service.SnapshotStore
	if cfg.Sessions.RedisSnapshots {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("redis connection failed", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		snapshots = service.NewRedisSnapshotStore(redisClient)
		logr.Info("session snapshots enabled")
	}

	metricsSvc := service.NewMetricsService()
	sessionSvc := service.NewSessionService(snapshots, metricsSvc, nil, logr, service.SessionConfig{TTL: cfg.Sessions.TTL})
	generatorSvc := service.NewGeneratorService(sessionSvc, metricsSvc, nil, logr, cfg.Generator)
	exportSvc := service.NewExportService(sessionSvc, nil, nil, logr)

	sessionHandler := handler.NewSessionHandler(sessionSvc, cfg.Ingest.MaxUploadBytes)
	courseHandler := handler.NewCourseHandler(sessionSvc)
	pairingHandler := handler.NewPairingHandler(sessionSvc)
	generatorHandler := handler.NewGeneratorHandler(generatorSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/sessions", sessionHandler.Create)
		api.POST("/sessions/:id/catalog", sessionHandler.LoadCatalog)
		api.GET("/sessions/:id/status", sessionHandler.Status)
		api.DELETE("/sessions/:id", sessionHandler.ClearData)
		api.DELETE("/sessions/:id/roster", sessionHandler.ClearRoster)

		api.GET("/sessions/:id/courses", courseHandler.List)
		api.GET("/sessions/:id/courses/:code/sections", courseHandler.Sections)
		api.PUT("/sessions/:id/selections/:code", courseHandler.SetSelection)
		api.GET("/sessions/:id/selections", courseHandler.Selections)

		api.POST("/sessions/:id/pairs", pairingHandler.Create)
		api.DELETE("/sessions/:id/pairs/:code", pairingHandler.Delete)
		api.GET("/sessions/:id/pairs", pairingHandler.List)
		api.GET("/sessions/:id/pairs/suggestions", pairingHandler.Suggestions)
		api.GET("/sessions/:id/pairings/export", pairingHandler.Export)
		api.PUT("/sessions/:id/pairings", pairingHandler.Import)

		api.POST("/sessions/:id/generate", generatorHandler.Generate)
		api.GET("/sessions/:id/export/selections.csv", generatorHandler.ExportSelectionsCSV)
		api.POST("/sessions/:id/export/combination.pdf", generatorHandler.ExportCombinationPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
