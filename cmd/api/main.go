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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/api/swagger"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/handler"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/library"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/middleware"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/repository"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/service"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/cache"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/config"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/database"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/jobs"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/logger"
	corsmiddleware "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/middleware/cors"
	reqidmiddleware "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/middleware/requestid"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/storage"
)

// @title Activity Generator API
// @version 1.0.0
// @description Activity recommendation and weekly timetable generation service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Cache and token revocation degrade gracefully without redis.
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}

	lib, err := library.Load()
	if err != nil {
		logr.Sugar().Fatalw("failed to load activity library", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	historyRepo := repository.NewHistoryRepository(db, activityRepo)
	selectionRepo := repository.NewSelectionRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	tokenStore := repository.NewTokenStore(redisClient, "")

	metricsService := service.NewMetricsService()

	authService := service.NewAuthService(userRepo, tokenStore, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	timetableService := service.NewTimetableService(timetableRepo, cacheRepo, validate, logr, service.TimetableServiceConfig{
		FillEmptySlots: cfg.Timetable.FillEmptySlots,
		CacheTTL:       cfg.Timetable.CacheTTL,
	}, nil, nil)
	timetableService.AttachMetrics(metricsService)

	recommendationService := service.NewRecommendationService(activityRepo, historyRepo, selectionRepo, lib, validate, logr, service.RecommendationConfig{
		DefaultMaxActivities: cfg.Recommend.DefaultMaxActivities,
		HistoryLimit:         cfg.Recommend.HistoryLimit,
	}, nil)

	preferenceService := service.NewPreferenceService(preferenceRepo, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exportService *service.ExportService
	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(exportJobRepo, timetableRepo, files, signer, validate, logr)
		exportQueue = jobs.NewQueue("timetable-exports", exportService.Process, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportService.AttachQueue(exportQueue)
		exportQueue.Start(ctx)
		defer exportQueue.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	authHandler := handler.NewAuthHandler(authService)
	timetableHandler := handler.NewTimetableHandler(timetableService, metricsService)
	recommendationHandler := handler.NewRecommendationHandler(recommendationService, metricsService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix + "/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authService), authHandler.Me)

	protected := api.Group("", middleware.JWT(authService))

	timetables := protected.Group("/timetables")
	timetables.POST("/generate", timetableHandler.Generate)
	timetables.GET("", timetableHandler.List)
	timetables.GET("/current-week", timetableHandler.CurrentWeek)
	timetables.GET("/:id", timetableHandler.Get)
	timetables.DELETE("/:id", timetableHandler.Delete)
	timetables.PATCH("/:id/activities/:activityId/complete", timetableHandler.CompleteActivity)

	recommendations := protected.Group("/recommendations")
	recommendations.POST("", recommendationHandler.Recommend)
	recommendations.GET("/history", recommendationHandler.History)
	recommendations.POST("/selections", recommendationHandler.SaveSelection)

	preferences := protected.Group("/preferences")
	preferences.GET("/categories", preferenceHandler.ListCategories)
	preferences.POST("/categories", middleware.RequireRoles(models.RoleAdmin), preferenceHandler.CreateCategory)
	preferences.GET("", preferenceHandler.List)
	preferences.POST("", preferenceHandler.Create)
	preferences.GET("/:id", preferenceHandler.Get)
	preferences.PUT("/:id", preferenceHandler.Update)
	preferences.DELETE("/:id", preferenceHandler.Delete)

	protected.GET("/metrics/snapshot", middleware.RequireRoles(models.RoleAdmin), metricsHandler.Snapshot)

	if exportService != nil {
		exportHandler := handler.NewExportHandler(exportService)
		timetables.POST("/:id/export", exportHandler.Create)
		exports := protected.Group("/exports")
		exports.GET("", exportHandler.List)
		exports.GET("/:id", exportHandler.Get)
		// Downloads authenticate with the signed token instead of a JWT.
		api.GET("/exports/download", exportHandler.Download)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
