package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textsummarizer/config"
)

type ConsumerFunc func(ctx context.Context, consumer *kafka.Consumer) error

// StartConsumer blocks until fn returns, then closes the consumer so the
// group rebalances promptly. fn's error is returned.
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, fn ConsumerFunc) error {
	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("[ConsumerFactory] Failed to initialize Kafka consumer: %w", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Warn("[ConsumerFactory] Failed to close consumer",
				slog.String("error", err.Error()))
		}
	}()

	slog.Info("[ConsumerFactory] Starting consumer for topic...", slog.String("topic", cfg.RequestTopic))
	return fn(ctx, consumer)
}
