// Package gemini adapts the Google GenAI SDK to the advisory capability.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Config for the Gemini client.
type Config struct {
	APIKey string
	Model  string
}

// Turn is one user/model exchange.
type Turn struct {
	Model   bool
	Content string
}

// Request is a single generation call.
type Request struct {
	System      string
	Turns       []Turn
	Temperature float32
	JSONMode    bool
}

// Client calls the Gemini API through the official SDK.
type Client struct {
	model  string
	client *genai.Client
}

// NewClient builds a Client against the Gemini API backend.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{model: cfg.Model, client: client}, nil
}

// Name returns the model identifier.
func (c *Client) Name() string { return "gemini/" + c.model }

// turnRole maps a turn to the SDK role. The SDK role constants are untyped
// strings, so the return type pins the conversion to genai.Role.
func turnRole(t Turn) genai.Role {
	if t.Model {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Generate runs one generateContent call and returns the response text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, t := range req.Turns {
		contents = append(contents, genai.NewContentFromText(t.Content, turnRole(t)))
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini api error: empty response")
	}
	return text, nil
}
