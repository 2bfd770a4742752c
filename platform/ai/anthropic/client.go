// Package anthropic is a minimal HTTP adapter for the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultModel   = "claude-sonnet-4-20250514"
	apiVersion     = "2023-06-01"
	maxTokens      = 4096
)

// Config for the Anthropic client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Turn is one user/assistant exchange.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single generation call.
type Request struct {
	System      string
	Turns       []Turn
	Temperature float32
	JSONMode    bool
}

// Client calls the Anthropic Messages API.
type Client struct {
	config Config
	client *http.Client
}

// NewClient builds a Client, filling in API defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the model identifier.
func (c *Client) Name() string { return "anthropic/" + c.config.Model }

type apiResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate runs one messages call and returns the first text block.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.JSONMode {
		system += "\n\nIMPORTANT: Respond with valid JSON only. No additional text."
	}

	payload := map[string]interface{}{
		"model":       c.config.Model,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"system":      system,
		"messages":    req.Turns,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.config.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode anthropic response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("anthropic api error: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic api error: status %d", resp.StatusCode)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic api error: empty content")
	}

	return result.Content[0].Text, nil
}
