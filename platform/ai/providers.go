package ai

import (
	"context"

	"yuvna_backend/platform/ai/anthropic"
	"yuvna_backend/platform/ai/gemini"
	"yuvna_backend/platform/ai/openai"
)

type anthropicProvider struct {
	c *anthropic.Client
}

func (p *anthropicProvider) Name() string { return p.c.Name() }

func (p *anthropicProvider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	system, turns := splitSystem(messages)
	req := anthropic.Request{
		System:      system,
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	}
	for _, t := range turns {
		role := "user"
		if t.Role == RoleAssistant {
			role = "assistant"
		}
		req.Turns = append(req.Turns, anthropic.Turn{Role: role, Content: t.Content})
	}

	out, err := p.c.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return finish(out, opts), nil
}

type openaiProvider struct {
	c *openai.Client
}

func (p *openaiProvider) Name() string { return p.c.Name() }

func (p *openaiProvider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	req := openai.Request{
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	}
	// OpenAI takes the system turn inline with the conversation.
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.Message{Role: string(m.Role), Content: m.Content})
	}

	out, err := p.c.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return finish(out, opts), nil
}

type geminiProvider struct {
	c *gemini.Client
}

func (p *geminiProvider) Name() string { return p.c.Name() }

func (p *geminiProvider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	system, turns := splitSystem(messages)
	req := gemini.Request{
		System:      system,
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	}
	for _, t := range turns {
		req.Turns = append(req.Turns, gemini.Turn{Model: t.Role == RoleAssistant, Content: t.Content})
	}

	out, err := p.c.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return finish(out, opts), nil
}

func finish(out string, opts Options) string {
	if opts.JSONMode {
		return StripCodeFence(out)
	}
	return out
}
