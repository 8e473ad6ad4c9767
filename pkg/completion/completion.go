// Package completion defines the contract of the external chat completion provider
package completion

import (
	"context"
	"time"

	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/pkg/errors"
)

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 150

	// DefaultTimeout bounds a single completion request
	DefaultTimeout = 30 * time.Second
)

// ErrEmptyReply is returned by providers when the response holds no usable text
var ErrEmptyReply = errors.New("completion returned no reply")

// Params are the generation parameters sent with every request
type Params struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultParams returns the parameters the concierge has always used
func DefaultParams() Params {
	return Params{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// ParamsFromConfig reads MODEL, TEMPERATURE and MAX_TOKENS
func ParamsFromConfig(cfg *utils.Config) Params {
	return Params{
		Model:       cfg.GetWithDefault("MODEL", DefaultModel),
		Temperature: cfg.GetFloatWithDefault("TEMPERATURE", DefaultTemperature),
		MaxTokens:   cfg.GetIntWithDefault("MAX_TOKENS", DefaultMaxTokens),
	}
}

// Provider turns an ordered list of turns into a single reply
type Provider interface {
	Complete(ctx context.Context, turns []conversation.Turn, params Params) (string, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, turns []conversation.Turn, params Params) (string, error)

// Complete calls f
func (f ProviderFunc) Complete(ctx context.Context, turns []conversation.Turn, params Params) (string, error) {
	return f(ctx, turns, params)
}
