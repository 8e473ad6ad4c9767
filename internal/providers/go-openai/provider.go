// Package goopenai implements the completion provider with sashabaranov/go-openai,
// which suits OpenAI-compatible gateways
package goopenai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Options configure the provider
type Options struct {
	APIKey  string
	BaseURL string // e.g. https://gateway.example.com/v1, empty uses api.openai.com
	Timeout time.Duration
}

// Provider calls an OpenAI-compatible chat completions endpoint
type Provider struct {
	client *openai.Client
}

// New creates a provider
func New(opts Options) (*Provider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set in environment")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Provider{client: openai.NewClientWithConfig(cfg)}, nil
}

// Complete implements completion.Provider
func (p *Provider) Complete(ctx context.Context, turns []conversation.Turn, params completion.Params) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		role, err := toRole(turn.Role)
		if err != nil {
			return "", err
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       params.Model,
		Messages:    messages,
		Temperature: float32(params.Temperature),
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}

	if len(resp.Choices) == 0 {
		return "", completion.ErrEmptyReply
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", completion.ErrEmptyReply
	}

	return reply, nil
}

func toRole(role conversation.Role) (string, error) {
	switch role {
	case conversation.RoleSystem:
		return openai.ChatMessageRoleSystem, nil
	case conversation.RoleUser:
		return openai.ChatMessageRoleUser, nil
	case conversation.RoleAssistant:
		return openai.ChatMessageRoleAssistant, nil
	default:
		return "", errors.Errorf("unsupported role %q", role)
	}
}
