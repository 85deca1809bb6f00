package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
)

const (
	maxResponseBytes = 4 << 20
	maxLoggedBody    = 1024
)

// Client calls <BaseURL>/chat/completions with bearer auth. The caller
// supplies the key per call so each handler can use its own.
type Client struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func (c *Client) Name() string {
	return c.Model
}

func (c *Client) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	body, err := json.Marshal(openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("completion: marshal request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("completion: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	slog.InfoContext(ctx, "completion request",
		"model", c.Model,
		"max_tokens", req.MaxTokens,
		"prompt_chars", len([]rune(req.Prompt)),
	)
	start := time.Now()

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.ErrorContext(ctx, "completion upstream error",
			"status", resp.StatusCode,
			"body", truncate(string(respBody), maxLoggedBody),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxLoggedBody)}
	}

	content, err := messageContent(respBody)
	if err != nil {
		slog.ErrorContext(ctx, "completion malformed response",
			"error", err,
			"body", truncate(string(respBody), maxLoggedBody),
		)
		return "", err
	}

	slog.InfoContext(ctx, "completion done",
		"status", resp.StatusCode,
		"output_chars", len([]rune(content)),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func messageContent(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	content := gjson.GetBytes(body, "choices.0.message.content")
	if content.Type != gjson.String {
		return "", fmt.Errorf("%w: no string at choices.0.message.content", ErrMalformedResponse)
	}
	return content.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
