// Package summarizer validates summary requests, forwards them to the
// configured summarization capability and derives word-count statistics.
package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/textsummarizer/internal/models"
	"github.com/spacesedan/textsummarizer/internal/sentiment"
	"github.com/spacesedan/textsummarizer/internal/textproc"
)

// Limits bounds the request parameters. Zero lengths in a request fall back
// to the defaults.
type Limits struct {
	MinInputChars    int
	DefaultMaxLength int
	DefaultMinLength int
	MaxLengthFloor   int
	MaxLengthCeil    int
	MinLengthFloor   int
	MinLengthCeil    int
}

func DefaultLimits() Limits {
	return Limits{
		MinInputChars:    50,
		DefaultMaxLength: 130,
		DefaultMinLength: 30,
		MaxLengthFloor:   50,
		MaxLengthCeil:    300,
		MinLengthFloor:   10,
		MinLengthCeil:    100,
	}
}

type Option func(*Handler)

func WithLimits(limits Limits) Option {
	return func(h *Handler) { h.limits = limits }
}

func WithCache(cache Cache) Option {
	return func(h *Handler) { h.cache = cache }
}

// WithTimeout bounds each capability call. Zero means no deadline beyond
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

func WithTone(enabled bool) Option {
	return func(h *Handler) { h.tone = enabled }
}

type Handler struct {
	capability Capability
	cache      Cache
	limits     Limits
	timeout    time.Duration
	tone       bool
}

func NewHandler(capability Capability, opts ...Option) *Handler {
	h := &Handler{
		capability: capability,
		limits:     DefaultLimits(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Provider() string {
	return h.capability.Name()
}

// Summarize runs one request through normalization, validation, the
// capability and the statistics step. It returns either a full result or
// one of ValidationError, ExternalServiceError or DivisionError.
func (h *Handler) Summarize(ctx context.Context, req models.SummaryRequest) (*models.SummaryResult, error) {
	text, err := h.plainText(req)
	if err != nil {
		return nil, err
	}

	normalized := textproc.Normalize(text)
	if n := textproc.CharCount(normalized); n <= h.limits.MinInputChars {
		slog.Debug("[SummaryHandler] Rejecting short input",
			slog.Int("chars", n),
			slog.Int("min_chars", h.limits.MinInputChars))
		return nil, &ValidationError{
			Field:  "text",
			Reason: fmt.Sprintf("input too short: %d characters, need more than %d", n, h.limits.MinInputChars),
		}
	}

	params, err := h.params(req)
	if err != nil {
		return nil, err
	}

	summary, cached, err := h.generate(ctx, normalized, params)
	if err != nil {
		return nil, err
	}

	result, err := ComputeStats(normalized, summary)
	if err != nil {
		slog.Error("[SummaryHandler] Failed to compute statistics",
			slog.String("error", err.Error()))
		return nil, err
	}

	result.Provider = h.capability.Name()
	result.Cached = cached
	result.MaxLength = params.MaxLength
	result.MinLength = params.MinLength
	if h.tone {
		tone := sentiment.Score(summary)
		result.Tone = &tone
	}

	slog.Info("[SummaryHandler] Summary generated",
		slog.String("provider", result.Provider),
		slog.Bool("cached", cached),
		slog.Int("original_words", result.OriginalWordCount),
		slog.Int("summary_words", result.SummaryWordCount),
		slog.String("compression", result.CompressionPercent))

	return result, nil
}

func (h *Handler) plainText(req models.SummaryRequest) (string, error) {
	switch req.Format {
	case "", models.FormatText:
		return req.Text, nil
	case models.FormatMarkdown:
		return textproc.MarkdownToText(req.Text), nil
	default:
		return "", &ValidationError{
			Field:  "format",
			Reason: fmt.Sprintf("unsupported format %q, expected %q or %q", req.Format, models.FormatText, models.FormatMarkdown),
		}
	}
}

func (h *Handler) params(req models.SummaryRequest) (models.GenerationParams, error) {
	maxLength, minLength := req.MaxLength, req.MinLength
	if maxLength == 0 {
		maxLength = h.limits.DefaultMaxLength
	}
	if minLength == 0 {
		minLength = h.limits.DefaultMinLength
	}

	l := h.limits
	if maxLength < l.MaxLengthFloor || maxLength > l.MaxLengthCeil {
		return models.GenerationParams{}, &ValidationError{
			Field:  "max_length",
			Reason: fmt.Sprintf("%d is outside [%d, %d]", maxLength, l.MaxLengthFloor, l.MaxLengthCeil),
		}
	}
	if minLength < l.MinLengthFloor || minLength > l.MinLengthCeil {
		return models.GenerationParams{}, &ValidationError{
			Field:  "min_length",
			Reason: fmt.Sprintf("%d is outside [%d, %d]", minLength, l.MinLengthFloor, l.MinLengthCeil),
		}
	}
	if minLength >= maxLength {
		return models.GenerationParams{}, &ValidationError{
			Field:  "min_length",
			Reason: fmt.Sprintf("%d must be lower than max_length %d", minLength, maxLength),
		}
	}

	return models.GenerationParams{
		MaxLength: maxLength,
		MinLength: minLength,
		DoSample:  false,
	}, nil
}

func (h *Handler) generate(ctx context.Context, text string, params models.GenerationParams) (string, bool, error) {
	provider := h.capability.Name()
	key := CacheKey(provider, text, params)

	if h.cache != nil {
		summary, ok, err := h.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.Warn("[SummaryHandler] Cache lookup failed, calling provider",
				slog.String("error", err.Error()))
		case ok:
			return summary, true, nil
		}
	}

	callCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	summary, err := h.capability.Summarize(callCtx, text, params)
	if err != nil {
		slog.Error("[SummaryHandler] Summarization capability failed",
			slog.String("provider", provider),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", false, &ExternalServiceError{Provider: provider, Err: err}
	}
	summary = strings.TrimSpace(summary)

	slog.Debug("[SummaryHandler] Capability returned",
		slog.String("provider", provider),
		slog.Duration("elapsed", time.Since(start)))

	if h.cache != nil && summary != "" {
		if err := h.cache.Set(ctx, key, summary); err != nil {
			slog.Warn("[SummaryHandler] Failed to cache summary",
				slog.String("error", err.Error()))
		}
	}

	return summary, false, nil
}

// CacheKey identifies a deterministic summary: same provider, text and
// length bounds always give the same output.
func CacheKey(provider, text string, params models.GenerationParams) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00", provider, params.MaxLength, params.MinLength)
	h.Write([]byte(text))
	return "summary:" + hex.EncodeToString(h.Sum(nil))
}
