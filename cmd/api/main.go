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
	"go.uber.org/zap"

	_ "github.com/biblioteca-unival/capacitaciones-api/api/swagger"
	"github.com/biblioteca-unival/capacitaciones-api/internal/handler"
	"github.com/biblioteca-unival/capacitaciones-api/internal/middleware"
	"github.com/biblioteca-unival/capacitaciones-api/internal/repository"
	"github.com/biblioteca-unival/capacitaciones-api/internal/service"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/cache"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/config"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/logger"
	corsmiddleware "github.com/biblioteca-unival/capacitaciones-api/pkg/middleware/cors"
	reqidmiddleware "github.com/biblioteca-unival/capacitaciones-api/pkg/middleware/requestid"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/storage"
)

// @title API de Capacitaciones de Biblioteca
// @version 1.0.0
// @description Registro de asistencia a capacitaciones, evaluaciones, estadísticas e inversiones
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

	db, dialect, err := database.New(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	bootstrap, err := database.Bootstrap(db, dialect)
	if err != nil {
		logr.Fatal("failed to bootstrap schema", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init report storage", zap.Error(err))
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db, dialect)
	attendanceRepo := repository.NewAttendanceRepository(db, dialect)
	evaluationRepo := repository.NewEvaluationRepository(db, dialect)
	programRepo := repository.NewProgramRepository(db, dialect)
	modalityRepo := repository.NewModalityRepository(db, dialect)
	investmentRepo := repository.NewInvestmentRepository(db, dialect)
	statsRepo := repository.NewStatsRepository(db, dialect)
	reportRepo := repository.NewReportRepository(db, dialect)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Services.
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Stats.CacheTTL, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	attendanceService := service.NewAttendanceService(attendanceRepo, cacheRepo, cacheService, validate, logr, cfg.Registration.PublicURL)
	evaluationService := service.NewEvaluationService(evaluationRepo, attendanceRepo, validate, logr)
	programService := service.NewCatalogService(programRepo, "programa", validate, logr)
	modalityService := service.NewCatalogService(modalityRepo, "modalidad", validate, logr)
	investmentService := service.NewInvestmentService(investmentRepo, validate, logr)
	statsService := service.NewStatsService(statsRepo, cacheService, logr, service.StatsConfig{
		WindowYears: cfg.Stats.WindowYears,
		CacheTTL:    cfg.Stats.CacheTTL,
	})
	retentionService := service.NewRetentionService(attendanceRepo, cacheService, logr, cfg.Retention.WindowYears)
	signer := storage.NewSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	reportService := service.NewReportService(reportRepo, attendanceRepo, statsRepo, store, signer, validate, logr,
		service.ReportOptions{
			WorkerConcurrency: cfg.Reports.WorkerConcurrency,
			WorkerRetries:     cfg.Reports.WorkerRetries,
			WindowYears:       cfg.Stats.WindowYears,
			DownloadTTL:       cfg.Reports.SignedURLTTL,
		})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportService.Start(rootCtx, cfg.Reports.CleanupInterval)
	defer reportService.Stop()

	// Surface the bootstrap dedupe on the next summary view.
	if bootstrap.DuplicatesRemoved > 0 {
		attendanceService.RecordCleanupNotice(rootCtx, bootstrap.DuplicatesRemoved)
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService)
	programHandler := handler.NewCatalogHandler(programService)
	modalityHandler := handler.NewCatalogHandler(modalityService)
	investmentHandler := handler.NewInvestmentHandler(investmentService)
	statsHandler := handler.NewStatsHandler(statsService)
	reportHandler := handler.NewReportHandler(reportService)
	adminHandler := handler.NewAdminHandler(retentionService)
	metricsHandler := handler.NewMetricsHandler(metricsService, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
			auth.GET("/me", middleware.JWT(authService), authHandler.Me)
		}

		attendances := api.Group("/attendances")
		{
			// Registration and evaluation come from the public form.
			attendances.POST("", middleware.OptionalJWT(authService), attendanceHandler.Create)
			attendances.GET("/qr", attendanceHandler.QRCode)

			attendances.GET("/grid", middleware.JWT(authService), attendanceHandler.Grid)
			attendances.GET("/summary", middleware.JWT(authService), attendanceHandler.Summary)
			attendances.GET("/export", middleware.JWT(authService), attendanceHandler.Export)
			attendances.POST("/import", middleware.JWT(authService),
				middleware.Audit(logr, "import", "attendances"), attendanceHandler.Import)
			attendances.GET("/:id", middleware.JWT(authService), attendanceHandler.Get)
		}

		evaluations := api.Group("/evaluations")
		{
			evaluations.GET("/context/:attendance_id", evaluationHandler.Context)
			evaluations.POST("", evaluationHandler.Create)
		}

		// Options feed the public registration form's dropdowns.
		api.GET("/programs/options", programHandler.Options)
		api.GET("/modalities/options", modalityHandler.Options)

		programs := api.Group("/programs", middleware.JWT(authService))
		{
			programs.GET("", programHandler.List)
			programs.POST("", middleware.Audit(logr, "create", "programs"), programHandler.Create)
			programs.PATCH("/:id/toggle", middleware.Audit(logr, "toggle", "programs"), programHandler.Toggle)
			programs.DELETE("/:id", middleware.Audit(logr, "delete", "programs"), programHandler.Delete)
		}

		modalities := api.Group("/modalities", middleware.JWT(authService))
		{
			modalities.GET("", modalityHandler.List)
			modalities.POST("", middleware.Audit(logr, "create", "modalities"), modalityHandler.Create)
			modalities.PATCH("/:id/toggle", middleware.Audit(logr, "toggle", "modalities"), modalityHandler.Toggle)
			modalities.DELETE("/:id", middleware.Audit(logr, "delete", "modalities"), modalityHandler.Delete)
		}

		api.GET("/stats/overview", middleware.JWT(authService), statsHandler.Overview)

		investments := api.Group("/investments", middleware.JWT(authService))
		{
			investments.GET("/institutional", investmentHandler.ListInstitutional)
			investments.POST("/institutional", investmentHandler.CreateInstitutional)
			investments.GET("/programs", investmentHandler.ListPrograms)
			investments.POST("/programs", investmentHandler.CreateProgram)
		}

		reports := api.Group("/reports")
		{
			reports.POST("", middleware.JWT(authService), reportHandler.Create)
			reports.GET("/:id", middleware.JWT(authService), reportHandler.Status)
			// The token itself authorizes the download.
			reports.GET("/download/:token", reportHandler.Download)
		}

		admin := api.Group("/admin", middleware.JWT(authService))
		{
			admin.GET("/retention/preview", adminHandler.RetentionPreview)
			admin.POST("/retention/purge", middleware.Audit(logr, "purge", "retention"), adminHandler.RetentionPurge)
			admin.GET("/metrics/snapshot", metricsHandler.Snapshot)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}
