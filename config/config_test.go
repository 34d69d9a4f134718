package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		cfg, err := Parse()
		require.NoError(t, err)

		assert.Equal(t, ProviderHuggingFace, cfg.Provider)
		assert.Equal(t, 60*time.Second, cfg.Timeout)
		assert.Equal(t, 50, cfg.Summary.MinInputChars)
		assert.Equal(t, 130, cfg.Summary.DefaultMaxLength)
		assert.Equal(t, 30, cfg.Summary.DefaultMinLength)
		assert.Equal(t, "summary-request", cfg.Kafka.RequestTopic)
		assert.Equal(t, 24*time.Hour, cfg.Valkey.TTL)
	})

	t.Run("Should read prefixed sections", func(t *testing.T) {
		t.Setenv("SUMMARIZER_PROVIDER", ProviderOpenAI)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4o")
		t.Setenv("VALKEY_ENABLED", "true")
		t.Setenv("KAFKA_BROKER", "kafka:9092")

		cfg, err := Parse()
		require.NoError(t, err)

		assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
		assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
		assert.True(t, cfg.Valkey.Enabled)
		assert.Equal(t, "kafka:9092", cfg.Kafka.Broker)
	})

	t.Run("Should reject openai provider without key", func(t *testing.T) {
		t.Setenv("SUMMARIZER_PROVIDER", ProviderOpenAI)

		_, err := Parse()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("Should reject unknown provider", func(t *testing.T) {
		t.Setenv("SUMMARIZER_PROVIDER", "pegasus")

		_, err := Parse()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pegasus")
	})

	t.Run("Should reject default min length not below max length", func(t *testing.T) {
		t.Setenv("SUMMARY_MAX_LENGTH", "60")
		t.Setenv("SUMMARY_MIN_LENGTH", "60")

		_, err := Parse()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lower than")
	})

	t.Run("Should reject a cache ttl below one second", func(t *testing.T) {
		t.Setenv("VALKEY_ENABLED", "true")
		t.Setenv("VALKEY_TTL", "500ms")

		_, err := Parse()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VALKEY_TTL")
	})

	t.Run("Should ignore the ttl while the cache is disabled", func(t *testing.T) {
		t.Setenv("VALKEY_TTL", "0s")

		_, err := Parse()
		require.NoError(t, err)
	})
}
