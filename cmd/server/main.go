package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradebi/internal/config"
	cronrunner "tradebi/internal/cron"
	"tradebi/internal/db"
	"tradebi/internal/etl"
	"tradebi/internal/handler"
	"tradebi/internal/logger"
	gormrepository "tradebi/internal/repository/gorm"
	"tradebi/internal/service"

	_ "tradebi/docs"
)

func main() {
	cfgPath := os.Getenv("TB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TB_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	loader := &etl.Loader{
		Repo:      store,
		Logger:    logger,
		BatchSize: cfg.ETL.BatchSize,
	}
	metricsService := &service.MetricsService{Repo: store, Logger: logger}
	performanceService := &service.PerformanceService{Repo: store, Logger: logger}

	if cfg.ETL.SeedSample {
		if err := etl.SeedSampleData(context.Background(), store, logger); err != nil {
			logger.Warn("sample data seed failed", zap.Error(err))
		}
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	catalogHandler := &handler.CatalogHandler{Repo: store}
	catalogHandler.Register(engine)
	analyticsHandler := &handler.AnalyticsHandler{
		Metrics:     metricsService,
		Performance: performanceService,
	}
	analyticsHandler.Register(engine)
	ingestHandler := &handler.IngestHandler{Loader: loader}
	ingestHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled && cfg.ETL.WatchDir != "" {
		watchDir := cfg.ETL.WatchDir
		_, err := cronRunner.Add(cfg.Cron.ETLSweep, func(ctx context.Context) {
			if err := loader.SweepDir(ctx, watchDir); err != nil {
				logger.Warn("cron etl sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register etl sweep failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
