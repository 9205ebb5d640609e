package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-planner/api/swagger"
	"github.com/noah-isme/course-planner/internal/handler"
	internalmiddleware "github.com/noah-isme/course-planner/internal/middleware"
	"github.com/noah-isme/course-planner/internal/repository"
	"github.com/noah-isme/course-planner/internal/scheduler"
	"github.com/noah-isme/course-planner/internal/service"
	"github.com/noah-isme/course-planner/pkg/cache"
	"github.com/noah-isme/course-planner/pkg/config"
	"github.com/noah-isme/course-planner/pkg/export"
	"github.com/noah-isme/course-planner/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-planner/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-planner/pkg/middleware/requestid"
	"github.com/noah-isme/course-planner/pkg/storage"
)

// @title Course Planner API
// @version 1.0.0
// @description Generates conflict-free weekly timetables and ranks them by day-off preference.
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Planner.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, planner cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, "planner", cfg.Planner.CacheTTL, logr, redisClient != nil)

	planner := service.NewPlannerService(
		scheduler.NewEngine(logr),
		cacheSvc,
		metricsSvc,
		validator.New(),
		logr,
		service.PlannerConfig{
			DefaultDayOff: cfg.Planner.DefaultDayOff,
			SessionTTL:    cfg.Planner.SessionTTL,
			MaxCourses:    cfg.Planner.MaxCourses,
			MaxSections:   cfg.Planner.MaxSections,
			SearchTimeout: cfg.Planner.SearchTimeout,
			CacheTTL:      cfg.Planner.CacheTTL,
		},
	)
	go planner.SweepSessions(ctx, time.Minute)

	var exportSvc *service.ExportService
	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Warn("export storage unavailable, signed downloads disabled", zap.Error(err))
		exportSvc = service.NewExportService(nil, nil, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr,
			export.NewCSVExporter(','), export.NewPDFExporter(28))
	} else {
		signer := storage.NewDownloadSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.RetentionTTL,
		}, logr, export.NewCSVExporter(','), export.NewPDFExporter(28))
		go exportSvc.RunRetention(ctx, time.Hour)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessProbe{"redis": cacheRepo})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", metricsHandler.Summary)
	handler.NewPlannerHandler(planner, exportSvc).Register(api)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
