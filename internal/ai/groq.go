package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider talks to Groq's OpenAI-compatible chat completion endpoint.
type GroqProvider struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
}

func NewGroqProvider(baseURL, apiKey, model string, temperature float32) *GroqProvider {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	return &GroqProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
	}
}

func (p *GroqProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" || p.apiKey == noAPIKey {
		return "", ErrNoCredential
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("groq: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
