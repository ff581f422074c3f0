package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tidyrota/tidyrota-api/internal/handler"
	"github.com/tidyrota/tidyrota-api/internal/middleware"
	"github.com/tidyrota/tidyrota-api/internal/service"
	"github.com/tidyrota/tidyrota-api/internal/store"
	"github.com/tidyrota/tidyrota-api/pkg/config"
	"github.com/tidyrota/tidyrota-api/pkg/logger"
	reqidmiddleware "github.com/tidyrota/tidyrota-api/pkg/middleware/requestid"
	"github.com/tidyrota/tidyrota-api/pkg/storage"
)

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

	kv, err := storage.NewKV(cfg.Storage.DataDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to open storage", "error", err)
	}

	metrics := service.NewMetricsService()
	migrator := service.NewMigrationService(logr)
	validation := service.NewValidationService(logr, metrics, cfg.Validation.OversizeThreshold)
	filter := service.NewFilterService(logr)
	exporter := service.NewExportService(nil, nil, metrics, logr, cfg.Export.FilenamePrefix)
	importer := service.NewImportService(metrics, logr)

	keys := store.Keys{Schedules: cfg.Storage.SchedulesKey, Backup: cfg.Storage.BackupKey}
	consent := func() bool { return cfg.Storage.MigrateOnLoad }
	scheduleStore := store.NewScheduleStore(kv, keys, validation, migrator, metrics, consent, logr)
	if err := scheduleStore.Load(); err != nil {
		logr.Sugar().Fatalw("failed to load schedules", "error", err)
	}
	roster := store.NewRoster(kv, cfg.Storage.RosterKey, logr)
	if err := roster.Load(); err != nil {
		logr.Sugar().Fatalw("failed to load roster", "error", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Request-ID")
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	validate := validator.New()
	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Handlers{
		Schedules: handler.NewScheduleHandler(scheduleStore, validate),
		Views:     handler.NewViewHandler(scheduleStore, filter),
		Export:    handler.NewExportHandler(scheduleStore, exporter),
		Import:    handler.NewImportHandler(scheduleStore, importer),
		Roster:    handler.NewRosterHandler(roster),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
