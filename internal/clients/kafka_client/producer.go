package kafka_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textsummarizer/config"
)

var producer *kafka.Producer

func InitKafkaProducer(cfg config.KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(ProducerConfigMap(cfg))
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		p.Close()
		return fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseKafkaProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(FLUSH_TIMEOUT); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// transactionalProducer is the part of *kafka.Producer a publish needs.
type transactionalProducer interface {
	BeginTransaction() error
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}

var _ transactionalProducer = (*kafka.Producer)(nil)

// txnError is implemented by kafka.Error.
type txnError interface {
	IsFatal() bool
	IsRetriable() bool
	TxnRequiresAbort() bool
}

// PublishToKafka sends value as JSON under key inside its own transaction.
func PublishToKafka(topic, key string, value any) error {
	if producer == nil {
		return errors.New("[KafkaClient] Kafka producer has not been initialized")
	}
	return publishTransactional(context.Background(), producer, topic, key, value)
}

// publishTransactional leaves no transaction open on return unless the
// producer hit a fatal error, after which it cannot be used again anyway.
func publishTransactional(ctx context.Context, p transactionalProducer, topic, key string, value any) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal message: %w", err)
	}

	if err := p.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          jsonData,
	}

	for i := 0; i < PUBLISH_RETRIES; i++ {
		err = p.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return abortTransaction(ctx, p, fmt.Errorf("[KafkaClient] failed to produce message: %w", err))
	}

	for i := 0; i < PUBLISH_RETRIES; i++ {
		err = p.CommitTransaction(ctx)
		if err == nil {
			slog.Debug("[KafkaClient] Published message to Kafka transactionally",
				slog.String("topic", topic),
				slog.String("key", key))
			return nil
		}

		var txnErr txnError
		if !errors.As(err, &txnErr) {
			break
		}
		if txnErr.IsFatal() {
			slog.Error("[KafkaClient] Fatal transaction error, producer must be recreated",
				slog.String("error", err.Error()))
			return fmt.Errorf("[KafkaClient] fatal error committing transaction: %w", err)
		}
		if txnErr.TxnRequiresAbort() || !txnErr.IsRetriable() {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}

	return abortTransaction(ctx, p, fmt.Errorf("[KafkaClient] failed to commit transaction: %w", err))
}

func abortTransaction(ctx context.Context, p transactionalProducer, cause error) error {
	if abortErr := p.AbortTransaction(ctx); abortErr != nil {
		slog.Error("[KafkaClient] Failed to abort transaction",
			slog.String("error", abortErr.Error()))
		return errors.Join(cause, fmt.Errorf("[KafkaClient] failed to abort transaction: %w", abortErr))
	}
	slog.Warn("[KafkaClient] Transaction aborted",
		slog.String("error", cause.Error()))
	return cause
}
