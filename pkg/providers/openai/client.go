package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config contains settings for the OpenAI client.
type Config struct {
	// APIKey authenticates requests. The handler checks for its absence
	// before calling; the client itself does not validate it.
	APIKey string

	// Endpoint is the chat completions URL.
	Endpoint string

	// Model is the model name sent with each request.
	Model string

	// MaxTokens caps the generated completion length.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64

	// Timeout bounds the whole round trip. Zero means no client timeout
	// beyond transport defaults.
	Timeout time.Duration

	// Logger receives upstream failure detail. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client calls the OpenAI chat completions API. It is the sole outbound
// collaborator that generation flows through; callers treat it as opaque
// and map every failure to a generic upstream error.
type Client struct {
	config Config
	client *http.Client
}

// UpstreamError is returned when the generation service responds with a
// non-success status. The status never reaches end users; it is logged
// internally only.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation service returned status %d", e.StatusCode)
}

// NewClient creates a client with connection pooling.
func NewClient(cfg Config) *Client {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// Complete sends the assembled message sequence and returns the first
// generated choice's text. An empty string with nil error means the
// response arrived but lacked the expected structure; callers substitute
// their own fallback text. No retries: a failed call is terminal for the
// request.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := Request{
		Model:       c.config.Model,
		Messages:    messages,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.config.Logger.Error("generation service error",
			"status", resp.StatusCode,
			"duration", time.Since(start).String(),
		)
		return "", &UpstreamError{StatusCode: resp.StatusCode}
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	c.config.Logger.Debug("generation completed",
		"duration", time.Since(start).String(),
		"prompt_tokens", parsed.Usage.PromptTokens,
		"completion_tokens", parsed.Usage.CompletionTokens,
	)

	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
