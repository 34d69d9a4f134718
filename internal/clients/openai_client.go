package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spacesedan/textsummarizer/config"
	"github.com/spacesedan/textsummarizer/internal/models"
)

const openAISummaryPrompt = `Summarize the user's text abstractively.

Rules:
- Between %d and %d words.
- Keep names, dates and numbers that carry the main point.
- Plain prose, no lists, no preamble.
- Write in the same language as the input.`

// OpenAIClient summarizes through the Chat Completions API with
// temperature 0, so repeated requests decode the same way.
type OpenAIClient struct {
	Client openai.Client
	model  string
}

func NewOpenAIClient(cfg config.OpenAIConfig, timeout time.Duration) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("[OpenAIClient] missing OPENAI_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithHeader("User-Agent", USER_AGENT),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", timeout))

	return &OpenAIClient{
		Client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (o *OpenAIClient) Name() string {
	return config.ProviderOpenAI
}

func (o *OpenAIClient) Summarize(ctx context.Context, text string, params models.GenerationParams) (string, error) {
	slog.Info("[OpenAIClient] Requesting summary", slog.String("model", o.model))
	start := time.Now()

	completion, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(openAISummaryPrompt, params.MinLength, params.MaxLength)),
			openai.UserMessage(text),
		},
		Model:               o.model,
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(maxCompletionTokens(params.MaxLength)),
	})
	if err != nil {
		slog.Error("[OpenAIClient] Summary request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("output text is missing (finish reason = %s)", completion.Choices[0].FinishReason)
	}

	slog.Info("[OpenAIClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))

	return summary, nil
}

func (o *OpenAIClient) HealthCheck(ctx context.Context) error {
	if _, err := o.Client.Models.Get(ctx, o.model); err != nil {
		return fmt.Errorf("model lookup failed: %w", err)
	}
	return nil
}

// Roughly two tokens per word leaves room for the requested upper bound.
func maxCompletionTokens(maxWords int) int64 {
	return int64(maxWords) * 2
}
