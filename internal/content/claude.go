package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com"
	defaultClaudeModel   = "claude-3-5-sonnet-20241022"
	anthropicVersion     = "2023-06-01"
)

// ClaudeConfig describes how to reach the Anthropic messages API.
type ClaudeConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ClaudeClient sends a single-turn prompt to the messages API and returns
// the text of the first content block.
type ClaudeClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClaudeClient validates the configuration and returns a ready-to-use client.
func NewClaudeClient(cfg ClaudeConfig) (*ClaudeClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("claude: API key required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultClaudeModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultClaudeBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ClaudeClient{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt and returns the model's text reply.
func (c *ClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		Model:       c.model,
		MaxTokens:   4096,
		Temperature: 0.7,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("claude: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("claude: read response: %w", err)
	}

	var out claudeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("claude: decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if out.Error != nil {
			return "", fmt.Errorf("claude: %s: %s", out.Error.Type, out.Error.Message)
		}
		return "", fmt.Errorf("claude: %s", resp.Status)
	}
	if len(out.Content) == 0 || out.Content[0].Type != "text" {
		return "", errors.New("claude: unexpected response type")
	}
	return out.Content[0].Text, nil
}
