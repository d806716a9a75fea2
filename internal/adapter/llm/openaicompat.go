package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAICompat talks to any OpenAI-compatible chat-completions endpoint.
// The default target is Mistral's hosted API.
type OpenAICompat struct {
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration

	client *goopenai.Client
}

// Config carries the request parameters applied to every completion.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// NewOpenAICompat creates a chat client against cfg.BaseURL
// (https://api.mistral.ai/v1 when empty).
func NewOpenAICompat(apiKey string, cfg Config) *OpenAICompat {
	clientCfg := goopenai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	} else {
		clientCfg.BaseURL = "https://api.mistral.ai/v1"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAICompat{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		client:      goopenai.NewClientWithConfig(clientCfg),
	}
}

// Complete sends a single user prompt.
func (o *OpenAICompat) Complete(ctx context.Context, prompt string) (string, error) {
	return o.chat(ctx, []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleUser, Content: prompt},
	})
}

// CompleteWithSystem sends a system prompt alongside the user prompt.
func (o *OpenAICompat) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return o.chat(ctx, []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
	})
}

func (o *OpenAICompat) chat(ctx context.Context, messages []goopenai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAICompat) ModelName() string {
	return o.model
}
