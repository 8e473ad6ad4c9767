// Package openaigo implements the completion provider with the official OpenAI SDK
package openaigo

import (
	"context"
	"strings"
	"time"

	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkg/errors"
)

// Options configure the provider
type Options struct {
	APIKey  string
	BaseURL string        // empty uses the SDK default
	Timeout time.Duration // per request, zero leaves the SDK default
}

// Provider calls the chat completions endpoint
type Provider struct {
	client openai.Client
}

// New creates a provider. SDK retries are disabled so a failure reaches the guest exactly once
func New(opts Options) (*Provider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set in environment")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &Provider{client: openai.NewClient(reqOpts...)}, nil
}

// Complete implements completion.Provider
func (p *Provider) Complete(ctx context.Context, turns []conversation.Turn, params completion.Params) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		msg, err := toMessage(turn)
		if err != nil {
			return "", err
		}
		messages = append(messages, msg)
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(params.Model),
		Messages:    messages,
		Temperature: openai.Float(params.Temperature),
		MaxTokens:   openai.Int(int64(params.MaxTokens)),
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

func toMessage(turn conversation.Turn) (openai.ChatCompletionMessageParamUnion, error) {
	switch turn.Role {
	case conversation.RoleSystem:
		return openai.SystemMessage(turn.Content), nil
	case conversation.RoleUser:
		return openai.UserMessage(turn.Content), nil
	case conversation.RoleAssistant:
		return openai.AssistantMessage(turn.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, errors.Errorf("unsupported role %q", turn.Role)
	}
}
