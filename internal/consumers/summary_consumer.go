package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textsummarizer/internal/clients/kafka_client"
	"github.com/spacesedan/textsummarizer/internal/models"
	"github.com/spacesedan/textsummarizer/internal/summarizer"
)

const (
	PUBLISH_ATTEMPTS = 3
	PUBLISH_BACKOFF  = 2 * time.Second
	UNHEALTHY_PAUSE  = 5 * time.Second
)

type Summarizer interface {
	Summarize(ctx context.Context, req models.SummaryRequest) (*models.SummaryResult, error)
}

type ResultStore interface {
	StoreSummaryResult(ctx context.Context, requestID string, result *models.SummaryResult) error
}

// Publisher matches kafka_client.PublishToKafka.
type Publisher func(topic, key string, value any) error

type SummaryConsumer struct {
	summarizer  Summarizer
	publish     Publisher
	resultTopic string
	store       ResultStore
	healthy     *atomic.Bool
	pause       time.Duration
	backoff     time.Duration
}

type Option func(*SummaryConsumer)

func WithResultStore(store ResultStore) Option {
	return func(c *SummaryConsumer) { c.store = store }
}

// WithHealthGate stops reading new requests while healthy is false, leaving
// them on the topic instead of failing them.
func WithHealthGate(healthy *atomic.Bool) Option {
	return func(c *SummaryConsumer) { c.healthy = healthy }
}

func NewSummaryConsumer(s Summarizer, publish Publisher, resultTopic string, opts ...Option) *SummaryConsumer {
	c := &SummaryConsumer{
		summarizer:  s,
		publish:     publish,
		resultTopic: resultTopic,
		pause:       UNHEALTHY_PAUSE,
		backoff:     PUBLISH_BACKOFF,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handler adapts the consumer to kafka_client.StartConsumer.
func (c *SummaryConsumer) Handler() kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) error {
		return c.Run(ctx, consumer, consumer)
	}
}

// Run processes requests one at a time and commits each offset after its
// response has been published. It returns nil on cancellation and an error
// when a response cannot be published, leaving that offset uncommitted.
func (c *SummaryConsumer) Run(ctx context.Context, reader kafka_client.MessageReader, committer kafka_client.OffsetCommitter) error {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, reader)
	commits := kafka_client.NewCommitHandler(ctx, committer)

	slog.Info("[SummaryConsumer] Listening for messages...")

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[SummaryConsumer] Stopping consumer...")
			return nil
		default:
		}

		if c.healthy != nil && !c.healthy.Load() {
			slog.Warn("[SummaryConsumer] Summarizer unhealthy, pausing consumption",
				slog.Duration("pause", c.pause))
			select {
			case <-ctx.Done():
			case <-time.After(c.pause):
			}
			continue
		}

		msg, err := iterator.Next()
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			slog.Error("[SummaryConsumer] Kafka Consumer Error",
				slog.String("error", err.Error()))
			continue
		}

		if err := c.HandleMessage(ctx, msg); err != nil {
			if ctx.Err() != nil {
				continue
			}
			return err
		}

		if err := commits.Commit(msg); err != nil {
			slog.Warn("[SummaryConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}

// HandleMessage summarizes one request, stores a successful result when a
// store is configured and publishes the response.
func (c *SummaryConsumer) HandleMessage(ctx context.Context, msg *kafka.Message) error {
	response := ProcessSummaryMessage(ctx, c.summarizer, msg.Key, msg.Value)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if response.Result != nil && c.store != nil {
		if err := c.store.StoreSummaryResult(ctx, response.RequestID, response.Result); err != nil {
			slog.Error("[SummaryConsumer] Failed to store summary result",
				slog.String("request_id", response.RequestID),
				slog.String("error", err.Error()))
		}
	}

	var err error
	for i := 0; i < PUBLISH_ATTEMPTS; i++ {
		err = c.publish(c.resultTopic, response.RequestID, response)
		if err == nil {
			return nil
		}
		slog.Warn("[SummaryConsumer] Result publishing failed",
			slog.Int("attempt", i+1),
			slog.String("request_id", response.RequestID),
			slog.String("error", err.Error()))
		if i == PUBLISH_ATTEMPTS-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(c.backoff):
		}
	}
	return err
}

// ProcessSummaryMessage never fails: malformed payloads and handler errors
// become error responses. The message key stands in for a missing
// request_id.
func ProcessSummaryMessage(ctx context.Context, s Summarizer, key, value []byte) models.SummaryResponseMessage {
	var request models.SummaryRequestMessage
	if err := json.Unmarshal(value, &request); err != nil {
		slog.Warn("[SummaryConsumer] Failed to deserialize request",
			slog.String("key", string(key)),
			slog.String("error", err.Error()))
		body := summarizer.Describe(&summarizer.ValidationError{Reason: "malformed request message: " + err.Error()})
		return models.SummaryResponseMessage{RequestID: string(key), Error: &body}
	}

	requestID := request.RequestID
	if requestID == "" {
		requestID = string(key)
	}

	result, err := s.Summarize(ctx, request.Request)
	if err != nil {
		slog.Warn("[SummaryConsumer] Summary request failed",
			slog.String("request_id", requestID),
			slog.String("kind", string(summarizer.Kind(err))),
			slog.String("error", err.Error()))
		body := summarizer.Describe(err)
		return models.SummaryResponseMessage{RequestID: requestID, Error: &body}
	}

	return models.SummaryResponseMessage{RequestID: requestID, Result: result}
}
