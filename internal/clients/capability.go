package clients

import (
	"log/slog"
	"sync"

	"github.com/spacesedan/textsummarizer/config"
	"github.com/spacesedan/textsummarizer/internal/summarizer"
)

var (
	capabilityInstance *summarizer.LazyCapability
	capabilityOnce     sync.Once
)

// GetCapability returns the process-wide summarization capability. The
// provider client itself is only built on the first summary or health check.
func GetCapability(cfg config.Config) *summarizer.LazyCapability {
	capabilityOnce.Do(func() {
		capabilityInstance = NewCapability(cfg)
	})
	return capabilityInstance
}

func NewCapability(cfg config.Config) *summarizer.LazyCapability {
	timeout := HTTPTimeout(cfg.Timeout)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return summarizer.NewLazyCapability(config.ProviderOpenAI, func() (summarizer.Capability, error) {
			return NewOpenAIClient(cfg.OpenAI, timeout)
		})
	default:
		return summarizer.NewLazyCapability(config.ProviderHuggingFace, func() (summarizer.Capability, error) {
			return NewHuggingFaceClient(cfg.HuggingFace, timeout)
		})
	}
}

// NewSummaryHandler builds the handler shared by the server and the worker.
// A cache that cannot connect is logged and skipped.
func NewSummaryHandler(cfg config.Config, capability summarizer.Capability) *summarizer.Handler {
	s := cfg.Summary
	opts := []summarizer.Option{
		summarizer.WithLimits(summarizer.Limits{
			MinInputChars:    s.MinInputChars,
			DefaultMaxLength: s.DefaultMaxLength,
			DefaultMinLength: s.DefaultMinLength,
			MaxLengthFloor:   s.MaxLengthFloor,
			MaxLengthCeil:    s.MaxLengthCeil,
			MinLengthFloor:   s.MinLengthFloor,
			MinLengthCeil:    s.MinLengthCeil,
		}),
		summarizer.WithTimeout(cfg.Timeout),
		summarizer.WithTone(s.SentimentEnabled),
	}

	if cfg.Valkey.Enabled {
		cache, err := InitValkey(cfg.Valkey)
		if err != nil {
			slog.Warn("[Capability] Summary cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			opts = append(opts, summarizer.WithCache(cache))
		}
	}

	return summarizer.NewHandler(capability, opts...)
}
