package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/user/orderdesk/pkg/llm"
)

// Client implements the llm.Provider interface over any OpenAI-compatible
// chat completions API using the go-openai SDK.
type Client struct {
	client *openai.Client
	config *llm.Config
}

// New creates a new OpenAI-compatible client with the given configuration.
func New(config *llm.Config) *Client {
	oaConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaConfig.BaseURL = config.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(oaConfig),
		config: config,
	}
}

// Complete sends a chat completion request and returns the full response.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		oaMsgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    oaMsgs,
		Temperature: c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &llm.Response{
		Content: resp.Choices[0].Message.Content,
		Usage: llm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
