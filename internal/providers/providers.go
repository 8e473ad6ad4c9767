// Package providers builds the configured completion provider
package providers

import (
	"strings"

	goopenai "github.com/ethanbaker/concierge/internal/providers/go-openai"
	openaigo "github.com/ethanbaker/concierge/internal/providers/openai-go"
	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/pkg/errors"
)

const (
	BackendOpenAI   = "openai"
	BackendGoOpenAI = "go-openai"
)

// New returns the provider selected by COMPLETION_BACKEND
func New(cfg *utils.Config) (completion.Provider, error) {
	apiKey := cfg.Get("OPENAI_API_KEY")
	baseURL := cfg.Get("OPENAI_BASE_URL")
	timeout := cfg.GetDurationWithDefault("COMPLETION_TIMEOUT", completion.DefaultTimeout)

	switch backend := strings.ToLower(cfg.GetWithDefault("COMPLETION_BACKEND", BackendOpenAI)); backend {
	case BackendOpenAI:
		return openaigo.New(openaigo.Options{APIKey: apiKey, BaseURL: baseURL, Timeout: timeout})
	case BackendGoOpenAI:
		return goopenai.New(goopenai.Options{APIKey: apiKey, BaseURL: baseURL, Timeout: timeout})
	default:
		return nil, errors.Errorf("unknown COMPLETION_BACKEND %q", backend)
	}
}
