package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/internal/config"
	"github.com/pulseview/activity-analytics/internal/event"
	"github.com/pulseview/activity-analytics/pkg/kafka"
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

	log = logger.WithService(log, "ingest-service")
	log.Info("Starting Ingest Service",
		zap.String("environment", cfg.Environment),
		zap.String("consumer_group", cfg.Kafka.ConsumerGroup),
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
	ingestor := event.NewIngestor(eventRepo, log)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:           cfg.Kafka.Brokers,
		Topics:            []string{cfg.Kafka.Topic},
		GroupID:           cfg.Kafka.ConsumerGroup,
		AutoCommit:        true,
		CommitInterval:    1 * time.Second,
		SessionTimeout:    10 * time.Second,
		RebalanceStrategy: "sticky",
	}, ingestor.MessageHandler(), log)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	<-consumer.WaitReady()
	log.Info("Kafka consumer is ready and consuming messages")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")
	cancel()

	log.Info("Ingest Service stopped")
}
