package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veritas-ai/veritas/src/ai/core"
)

const defaultModel = "gpt-4o-mini"

func init() {
	core.RegisterProvider("openai", newClient, "gpt4omini")
}

type client struct {
	api      *openai.Client
	defaults core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	model := cfg.Model
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	temp := cfg.Temperature
	if temp == 0 {
		temp = 0.2
	}

	return &client{
		api: openai.NewClient(cfg.OpenAIKey),
		defaults: core.Options{
			Model:               model,
			Temperature:         temp,
			MaxCompletionTokens: cfg.MaxCompletionTokens,
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Respond(ctx context.Context, input string, opts core.Options) (string, error) {
	merged := c.merge(opts)

	messages := []openai.ChatCompletionMessage{}
	if merged.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: merged.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	req := openai.ChatCompletionRequest{
		Model:       merged.Model,
		Messages:    messages,
		Temperature: float32(merged.Temperature),
	}
	if merged.MaxCompletionTokens > 0 {
		req.MaxTokens = merged.MaxCompletionTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *client) AnswerQuestion(ctx context.Context, content string, question string, opts core.Options) (string, error) {
	prompt := fmt.Sprintf("Article:\n%s\n\nQuestion: %s\n\nProvide a direct, concise answer grounded only in the provided material.", content, question)
	return c.Respond(ctx, prompt, opts)
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}
