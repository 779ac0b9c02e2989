package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/teamstaff/staffdash-api/api/swagger"
	"github.com/teamstaff/staffdash-api/internal/handler"
	"github.com/teamstaff/staffdash-api/internal/middleware"
	"github.com/teamstaff/staffdash-api/internal/models"
	"github.com/teamstaff/staffdash-api/internal/repository"
	"github.com/teamstaff/staffdash-api/internal/service"
	"github.com/teamstaff/staffdash-api/pkg/cache"
	"github.com/teamstaff/staffdash-api/pkg/config"
	"github.com/teamstaff/staffdash-api/pkg/database"
	"github.com/teamstaff/staffdash-api/pkg/logger"
	corsmiddleware "github.com/teamstaff/staffdash-api/pkg/middleware/cors"
	reqidmiddleware "github.com/teamstaff/staffdash-api/pkg/middleware/requestid"
	"github.com/teamstaff/staffdash-api/pkg/storage"
)

// @title Staff Dashboard API
// @version 1.0.0
// @description RPE training-load analytics and data-quality reporting for team staff
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

	mongo, err := database.NewMongo(cfg.Mongo)
	if err != nil {
		logr.Sugar().Fatalw("mongo connection failed", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongo.Close(ctx); err != nil {
			logr.Warn("mongo close failed")
		}
	}()

	metricsService := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Analytics.CacheTTL, logr, redisClient != nil)

	fileStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("exports storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	sessionRepo := repository.NewSessionRepository(mongo.Sessions)
	rosterRepo := repository.NewRosterRepository(mongo.Roster)
	rpeRepo := repository.NewRpeRepository(mongo.PlayerRPE)
	sources := repository.NewSources(sessionRepo, rosterRepo, rpeRepo)

	validate := validator.New()

	authService := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            "staffdash-api",
	})
	loadSvc := service.NewLoadService(sources, cacheService, metricsService, logr)
	overviewSvc := service.NewOverviewService(sources, cacheService, metricsService, logr)
	qualitySvc := service.NewQualityService(sources, cacheService, metricsService, logr,
		cfg.Quality.DefaultExemptIDs, cfg.Quality.TimestampWindowDays)
	exportSvc := service.NewExportService(qualitySvc, fileStorage, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)
	sessionSvc := service.NewSessionService(sessionRepo, cacheService, validate, logr, cfg.Teams.Known)
	rosterSvc := service.NewRosterService(rosterRepo, logr)
	entrySvc := service.NewRpeEntryService(rpeRepo, sessionRepo, cacheService, validate, logr)

	rpeHandler := handler.NewRpeHandler(loadSvc, overviewSvc)
	qualityHandler := handler.NewQualityHandler(qualitySvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, entrySvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := mongo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/exports/download/:token", exportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))
	{
		authed.GET("/metrics/system", metricsHandler.System)

		teams := authed.Group("/teams/:team")
		{
			teams.GET("/rpe/weekly-loads", rpeHandler.WeeklyLoads)
			teams.GET("/rpe/daily-overview", rpeHandler.DailyOverview)
			teams.GET("/rpe/session-aggregates", rpeHandler.SessionAggregates)
			teams.GET("/quality/report", qualityHandler.SeasonReport)
			teams.POST("/quality/export", exportHandler.Export)
			teams.GET("/sessions", sessionHandler.List)
			teams.GET("/roster", rosterHandler.List)
		}

		staffWrite := middleware.RequireRoles(models.RoleAdmin, models.RoleCoach)
		authed.POST("/sessions", staffWrite, sessionHandler.Create)
		authed.POST("/rpe-entries", sessionHandler.SubmitRpe)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
