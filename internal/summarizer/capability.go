package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spacesedan/textsummarizer/internal/models"
)

// Capability is the external model that turns text into a summary. The
// handler treats it as opaque and never retries it.
type Capability interface {
	Summarize(ctx context.Context, text string, params models.GenerationParams) (string, error)
	Name() string
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Cache stores summaries by the key produced by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, summary string) error
}

// LazyCapability builds the underlying capability on first use and shares
// it with every later caller. A failed build is remembered as well.
type LazyCapability struct {
	name string
	load func() (Capability, error)
}

func NewLazyCapability(name string, build func() (Capability, error)) *LazyCapability {
	return &LazyCapability{
		name: name,
		load: sync.OnceValues(func() (Capability, error) {
			slog.Info("[LazyCapability] Initializing summarization capability",
				slog.String("provider", name))
			c, err := build()
			if err != nil {
				slog.Error("[LazyCapability] Initialization failed",
					slog.String("provider", name),
					slog.String("error", err.Error()))
				return nil, err
			}
			return c, nil
		}),
	}
}

func (l *LazyCapability) Name() string {
	return l.name
}

func (l *LazyCapability) Summarize(ctx context.Context, text string, params models.GenerationParams) (string, error) {
	c, err := l.load()
	if err != nil {
		return "", fmt.Errorf("initialize %s: %w", l.name, err)
	}
	return c.Summarize(ctx, text, params)
}

// HealthCheck reports initialization errors and delegates to the
// underlying capability when it can check itself.
func (l *LazyCapability) HealthCheck(ctx context.Context) error {
	c, err := l.load()
	if err != nil {
		return fmt.Errorf("initialize %s: %w", l.name, err)
	}
	if hc, ok := c.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
