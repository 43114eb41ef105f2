package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.openai.com/v1"

// responseSizeLimit caps how much provider output is read. A decision
// proposal is a few hundred bytes; anything near this limit is garbage.
const responseSizeLimit = 1 << 20

// OpenAI is a chat/completions transport. It also serves any
// OpenAI-compatible endpoint via BaseURL.
type OpenAI struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewOpenAI creates a transport against the given base URL (empty means the
// public OpenAI endpoint).
func NewOpenAI(baseURL string) *OpenAI {
	return &OpenAI{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// Complete sends a single chat/completions request and returns the first
// choice's message content. The caller controls timeouts through ctx.
func (t *OpenAI) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	base := strings.TrimRight(t.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}

	payload := map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
		"response_format": map[string]any{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("transport: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("transport: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transport: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseSizeLimit))
	if err != nil {
		return "", fmt.Errorf("transport: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: truncate(string(raw), 400)}
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("transport: decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", errors.New("transport: provider returned no choices")
	}
	return cc.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
