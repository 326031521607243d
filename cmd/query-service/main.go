package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/internal/analytics"
	"github.com/pulseview/activity-analytics/internal/config"
	"github.com/pulseview/activity-analytics/internal/event"
	"github.com/pulseview/activity-analytics/pkg/logger"
	"github.com/pulseview/activity-analytics/pkg/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log = logger.WithService(log, "query-service")
	log.Info("Starting Query Service",
		zap.String("environment", cfg.Environment),
		zap.String("http_port", cfg.HTTPPort),
	)

	db, err := postgres.New(postgres.Config{
		DSN:             cfg.Postgres.PostgresDSN(),
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	eventRepo := event.NewRepository(db, log)
	analyticsService := analytics.NewService(eventRepo, log)
	analyticsHandler := analytics.NewHandler(analyticsService, log)

	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	go logPoolStats(poolCtx, db, log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(log))
	analyticsHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn("Shutdown timeout, forcing stop", zap.Error(err))
	}

	log.Info("Query Service stopped")
}

func logPoolStats(ctx context.Context, db *postgres.DB, log *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug("postgres pool stats", zap.Any("stats", db.PoolStats()))
		}
	}
}
