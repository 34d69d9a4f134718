package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/textsummarizer/config"
	"github.com/spacesedan/textsummarizer/internal/clients"
	"github.com/spacesedan/textsummarizer/internal/clients/kafka_client"
	"github.com/spacesedan/textsummarizer/internal/consumers"
	"github.com/spacesedan/textsummarizer/internal/db"
	"github.com/spacesedan/textsummarizer/internal/logging"
	"github.com/spacesedan/textsummarizer/internal/monitoring"
)

const kafkaInitBackoff = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		err := kafka_client.InitKafkaProducer(cfg.Kafka)
		if err == nil {
			break
		}

		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(kafkaInitBackoff):
		}
	}
	defer kafka_client.CloseKafkaProducer()

	capability := clients.GetCapability(cfg)
	handler := clients.NewSummaryHandler(cfg, capability)
	if cfg.Valkey.Enabled {
		if cache, err := clients.InitValkey(cfg.Valkey); err == nil {
			defer cache.Close()
		}
	}

	summarizerHealthy := &atomic.Bool{}
	summarizerHealthy.Store(true)
	go monitoring.MonitorCapabilityHealth(ctx, capability.Name(), capability, summarizerHealthy, monitoring.HEALTHCHECK_INTERVAL)

	opts := []consumers.Option{consumers.WithHealthGate(summarizerHealthy)}
	if cfg.AWS.ResultsTable != "" {
		dynamo, err := clients.GetDynamoDBClient(cfg.AWS)
		if err != nil {
			slog.Error("[Main] Failed to create DynamoDB client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		opts = append(opts, consumers.WithResultStore(db.NewResultStore(dynamo, cfg.AWS.ResultsTable)))
	}

	consumer := consumers.NewSummaryConsumer(handler, kafka_client.PublishToKafka, cfg.Kafka.ResultTopic, opts...)

	if err := kafka_client.StartConsumer(ctx, cfg.Kafka, consumer.Handler()); err != nil {
		slog.Error("[Main] Consumer stopped with error",
			slog.String("error", err.Error()))
		kafka_client.CloseKafkaProducer()
		os.Exit(1)
	}
	slog.Info("[Main] Worker shut down")
}
