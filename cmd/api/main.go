package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vacuno/ganado-api/internal/handler"
	"github.com/vacuno/ganado-api/internal/repository"
	"github.com/vacuno/ganado-api/internal/service"
	"github.com/vacuno/ganado-api/pkg/cache"
	"github.com/vacuno/ganado-api/pkg/config"
	"github.com/vacuno/ganado-api/pkg/database"
	"github.com/vacuno/ganado-api/pkg/jobs"
	"github.com/vacuno/ganado-api/pkg/logger"
	"github.com/vacuno/ganado-api/pkg/storage"
)

// @title Ganado API
// @version 1.0.0
// @description Livestock management backend
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Stats fall back to direct queries without Redis.
		logr.Sugar().Warnw("redis unavailable, stats cache disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("report storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()
	metrics := service.NewMetrics(prometheus.DefaultRegisterer)

	userRepo := repository.NewUserRepository(db)
	cattleRepo := repository.NewCattleRepository(db)
	healthRepo := repository.NewHealthRecordRepository(db)
	weightRepo := repository.NewWeightRecordRepository(db)
	reportRepo := repository.NewReportRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "ganado-api",
	})
	userService := service.NewUserService(userRepo, logr)
	cattleService := service.NewCattleService(cattleRepo, validate, logr)
	healthService := service.NewHealthRecordService(healthRepo, cattleRepo, logr)
	weightService := service.NewWeightRecordService(weightRepo, cattleRepo, logr)
	exportService := service.NewExportService(cattleRepo, healthRepo, store, logr)

	var statsCache *repository.CacheRepository
	if cacheRepo != nil {
		statsCache = cacheRepo
	}
	var statsService *service.StatsService
	if statsCache != nil {
		statsService = service.NewStatsService(cattleRepo, weightRepo, statsCache, metrics, logr, cfg.Stats.CacheEnabled, cfg.Stats.CacheTTL)
	} else {
		statsService = service.NewStatsService(cattleRepo, weightRepo, nil, metrics, logr, false, cfg.Stats.CacheTTL)
	}
	cattleService.OnChange(statsService.Invalidate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reportService *service.ReportService
	queue := jobs.NewQueue("reports", func(ctx context.Context, job jobs.Job) error {
		return reportService.HandleJob(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportService = service.NewReportService(reportRepo, exportService, queue, signer, metrics, logr, service.ReportServiceConfig{
		MaxAttempts: cfg.Reports.WorkerRetries,
	})

	queue.Start(ctx)
	defer queue.Stop()

	if _, err := reportService.RecoverPending(ctx); err != nil {
		logr.Sugar().Warnw("pending report recovery failed", "error", err)
	}
	reportService.StartCleanup(ctx, cfg.Reports.CleanupInterval)

	router := handler.NewRouter(handler.RouterDeps{
		Config:  cfg,
		Logger:  logr,
		Metrics: metrics,
		Auth:    authService,
		Users:   userService,
		Cattle:  cattleService,
		Health:  healthService,
		Weights: weightService,
		Reports: reportService,
		Exports: exportService,
		Stats:   statsService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := router.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
