package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/textsummarizer/config"
	"github.com/spacesedan/textsummarizer/internal/models"
	"golang.org/x/oauth2"
)

// HuggingFaceClient calls a summarization model on the Hugging Face
// Inference API. Requests are sent once; failures go back to the caller.
type HuggingFaceClient struct {
	Client   *http.Client
	endpoint string
}

func NewHuggingFaceClient(cfg config.HuggingFaceConfig, timeout time.Duration) (*HuggingFaceClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("[HuggingFaceClient] missing summary endpoint")
	}

	client := &http.Client{}
	if cfg.Token != "" {
		client = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}
	client.Timeout = timeout

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("endpoint", cfg.Endpoint),
		slog.Duration("timeout", timeout),
		slog.Bool("authenticated", cfg.Token != ""))

	return &HuggingFaceClient{
		Client:   client,
		endpoint: cfg.Endpoint,
	}, nil
}

func (h *HuggingFaceClient) Name() string {
	return config.ProviderHuggingFace
}

func (h *HuggingFaceClient) Summarize(ctx context.Context, text string, params models.GenerationParams) (string, error) {
	input := models.HFSummaryRequest{
		Inputs: text,
		Parameters: models.HFSummaryParameters{
			MaxLength: params.MaxLength,
			MinLength: params.MinLength,
			DoSample:  params.DoSample,
		},
		Options: &models.HFInferenceOptions{WaitForModel: true},
	}

	var result models.HFSummaryResponse
	slog.Info("[HuggingFaceClient] Requesting summary from summarization service")
	start := time.Now()

	if err := h.postJSON(ctx, h.endpoint, input, &result); err != nil {
		slog.Error("[HuggingFaceClient] Summary Request Failed",
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	if len(result) == 0 {
		return "", errors.New("summarization service returned no summaries")
	}

	slog.Info("[HuggingFaceClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))

	return result[0].SummaryText, nil
}

// HealthCheck treats any non-5xx answer from the endpoint as reachable.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("summarization service unhealthy: status code %d", resp.StatusCode)
	}
	return nil
}

func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to build request",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return statusError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func statusError(code int, body []byte) error {
	var apiErr models.HFErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		if apiErr.EstimatedTime > 0 {
			return fmt.Errorf("status code %d: %s (estimated time %.0fs)", code, apiErr.Error, apiErr.EstimatedTime)
		}
		return fmt.Errorf("status code %d: %s", code, apiErr.Error)
	}
	return fmt.Errorf("status code %d", code)
}

func getPreview(respBody []byte) slog.Attr {
	raw := respBody
	if len(raw) > PREVIEW_BYTES {
		cut := PREVIEW_BYTES
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	return slog.String("raw_response", string(raw))
}
