package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textsummarizer/internal/models"
	"github.com/spacesedan/textsummarizer/internal/summarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	result *models.SummaryResult
	err    error
	got    models.SummaryRequest
}

func (f *fakeSummarizer) Summarize(_ context.Context, req models.SummaryRequest) (*models.SummaryResult, error) {
	f.got = req
	return f.result, f.err
}

type published struct {
	topic string
	key   string
	value models.SummaryResponseMessage
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []published
	err      error
	calls    int
}

func (p *recordingPublisher) Publish(topic, key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{topic: topic, key: key, value: value.(models.SummaryResponseMessage)})
	return nil
}

type recordingStore struct {
	ids []string
	err error
}

func (s *recordingStore) StoreSummaryResult(_ context.Context, requestID string, _ *models.SummaryResult) error {
	s.ids = append(s.ids, requestID)
	return s.err
}

func requestMessage(t *testing.T, key string, msg models.SummaryRequestMessage) *kafka.Message {
	t.Helper()
	value, err := json.Marshal(msg)
	require.NoError(t, err)
	topic := "summary-request"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Key:            []byte(key),
		Value:          value,
	}
}

func TestProcessSummaryMessage(t *testing.T) {
	t.Run("Should return the result for a valid request", func(t *testing.T) {
		fake := &fakeSummarizer{result: &models.SummaryResult{SummaryText: "short"}}
		value := []byte(`{"request_id":"r-1","request":{"text":"long text","max_length":120,"min_length":40}}`)

		resp := ProcessSummaryMessage(context.Background(), fake, []byte("key"), value)

		assert.Equal(t, "r-1", resp.RequestID)
		require.NotNil(t, resp.Result)
		assert.Nil(t, resp.Error)
		assert.Equal(t, models.SummaryRequest{Text: "long text", MaxLength: 120, MinLength: 40}, fake.got)
	})

	t.Run("Should answer malformed payloads with a validation error", func(t *testing.T) {
		fake := &fakeSummarizer{}
		resp := ProcessSummaryMessage(context.Background(), fake, []byte("k-9"), []byte("{not json"))

		assert.Equal(t, "k-9", resp.RequestID)
		assert.Nil(t, resp.Result)
		require.NotNil(t, resp.Error)
		assert.Equal(t, string(summarizer.KindValidation), resp.Error.Kind)
		assert.Contains(t, resp.Error.Message, "malformed request message")
	})

	t.Run("Should fall back to the message key", func(t *testing.T) {
		fake := &fakeSummarizer{result: &models.SummaryResult{}}
		resp := ProcessSummaryMessage(context.Background(), fake, []byte("k-2"), []byte(`{"request":{"text":"x"}}`))
		assert.Equal(t, "k-2", resp.RequestID)
	})

	t.Run("Should carry the error kind", func(t *testing.T) {
		fake := &fakeSummarizer{err: &summarizer.ExternalServiceError{Provider: "huggingface", Err: errors.New("503")}}
		resp := ProcessSummaryMessage(context.Background(), fake, nil, []byte(`{"request_id":"r-3","request":{"text":"x"}}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, "external_service", resp.Error.Kind)
		assert.Nil(t, resp.Result)
	})

	t.Run("Should reject short text through the real handler", func(t *testing.T) {
		handler := summarizer.NewHandler(nil)
		resp := ProcessSummaryMessage(context.Background(), handler, nil, []byte(`{"request_id":"r-4","request":{"text":"too short"}}`))

		require.NotNil(t, resp.Error)
		assert.Equal(t, "validation", resp.Error.Kind)
	})
}

func TestSummaryConsumer_HandleMessage(t *testing.T) {
	t.Run("Should store and publish a successful result", func(t *testing.T) {
		pub := &recordingPublisher{}
		store := &recordingStore{}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{SummaryText: "ok"}},
			pub.Publish, "summary-results", WithResultStore(store))

		err := c.HandleMessage(context.Background(), requestMessage(t, "k", models.SummaryRequestMessage{RequestID: "r-1"}))

		require.NoError(t, err)
		assert.Equal(t, []string{"r-1"}, store.ids)
		require.Len(t, pub.messages, 1)
		assert.Equal(t, "summary-results", pub.messages[0].topic)
		assert.Equal(t, "r-1", pub.messages[0].key)
		assert.Equal(t, "ok", pub.messages[0].value.Result.SummaryText)
	})

	t.Run("Should not store failures", func(t *testing.T) {
		pub := &recordingPublisher{}
		store := &recordingStore{}
		c := NewSummaryConsumer(&fakeSummarizer{err: &summarizer.ValidationError{Field: "text", Reason: "short"}},
			pub.Publish, "summary-results", WithResultStore(store))

		require.NoError(t, c.HandleMessage(context.Background(), requestMessage(t, "k", models.SummaryRequestMessage{RequestID: "r-2"})))
		assert.Empty(t, store.ids)
		require.Len(t, pub.messages, 1)
		assert.Equal(t, "validation", pub.messages[0].value.Error.Kind)
	})

	t.Run("Should publish even when storage fails", func(t *testing.T) {
		pub := &recordingPublisher{}
		store := &recordingStore{err: errors.New("throttled")}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{}},
			pub.Publish, "summary-results", WithResultStore(store))

		require.NoError(t, c.HandleMessage(context.Background(), requestMessage(t, "k", models.SummaryRequestMessage{RequestID: "r-3"})))
		assert.Len(t, pub.messages, 1)
	})

	t.Run("Should return the error after publish attempts run out", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker down")}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{}}, pub.Publish, "summary-results")
		c.backoff = 0

		err := c.HandleMessage(context.Background(), requestMessage(t, "k", models.SummaryRequestMessage{RequestID: "r-4"}))
		require.Error(t, err)
		assert.Equal(t, PUBLISH_ATTEMPTS, pub.calls)
	})

	t.Run("Should stop backing off when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pub := &recordingPublisher{err: errors.New("broker down")}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{}}, pub.Publish, "summary-results")
		c.backoff = time.Minute
		time.AfterFunc(20*time.Millisecond, cancel)

		start := time.Now()
		err := c.HandleMessage(ctx, requestMessage(t, "k", models.SummaryRequestMessage{RequestID: "r-5"}))

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, 1, pub.calls)
	})

	t.Run("Should not wait after the last attempt", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker down")}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{}}, pub.Publish, "summary-results")
		c.backoff = 100 * time.Millisecond

		start := time.Now()
		require.Error(t, c.HandleMessage(context.Background(), requestMessage(t, "k", models.SummaryRequestMessage{RequestID: "r-6"})))
		assert.Less(t, time.Since(start), time.Duration(PUBLISH_ATTEMPTS)*c.backoff)
	})
}

// queueReader hands out queued messages, then cancels the run.
type queueReader struct {
	mu     sync.Mutex
	queue  []*kafka.Message
	cancel context.CancelFunc
	reads  atomic.Int32
}

func (r *queueReader) ReadMessage(time.Duration) (*kafka.Message, error) {
	r.reads.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return nil, kafka.NewError(kafka.ErrTimedOut, "poll timeout", false)
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

type committedOffsets struct {
	mu   sync.Mutex
	keys []string
}

func (c *committedOffsets) CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, string(m.Key))
	return nil, nil
}

func TestSummaryConsumer_Run(t *testing.T) {
	t.Run("Should publish then commit every message until cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &queueReader{cancel: cancel, queue: []*kafka.Message{
			requestMessage(t, "a", models.SummaryRequestMessage{RequestID: "a"}),
			{Key: []byte("b"), Value: []byte("garbage")},
		}}
		committer := &committedOffsets{}
		pub := &recordingPublisher{}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{}}, pub.Publish, "summary-results")

		require.NoError(t, c.Run(ctx, reader, committer))

		assert.Equal(t, []string{"a", "b"}, committer.keys)
		require.Len(t, pub.messages, 2)
		assert.NotNil(t, pub.messages[0].value.Result)
		assert.Equal(t, "validation", pub.messages[1].value.Error.Kind)
	})

	t.Run("Should leave the offset uncommitted when publishing fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &queueReader{cancel: cancel, queue: []*kafka.Message{
			requestMessage(t, "a", models.SummaryRequestMessage{RequestID: "a"}),
		}}
		committer := &committedOffsets{}
		pub := &recordingPublisher{err: errors.New("broker down")}
		c := NewSummaryConsumer(&fakeSummarizer{result: &models.SummaryResult{}}, pub.Publish, "summary-results")
		c.backoff = 0

		require.Error(t, c.Run(ctx, reader, committer))
		assert.Empty(t, committer.keys)
	})

	t.Run("Should not read while the summarizer is unhealthy", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		healthy := &atomic.Bool{}
		reader := &queueReader{cancel: cancel}
		c := NewSummaryConsumer(&fakeSummarizer{}, (&recordingPublisher{}).Publish, "summary-results", WithHealthGate(healthy))
		c.pause = 5 * time.Millisecond

		require.NoError(t, c.Run(ctx, reader, &committedOffsets{}))
		assert.Zero(t, reader.reads.Load())
	})
}
