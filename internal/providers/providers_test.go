package providers

import (
	"testing"

	goopenai "github.com/ethanbaker/concierge/internal/providers/go-openai"
	openaigo "github.com/ethanbaker/concierge/internal/providers/openai-go"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := utils.NewConfig(map[string]string{"OPENAI_API_KEY": "k"})
	p, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &openaigo.Provider{}, p)

	cfg.Set("COMPLETION_BACKEND", "Go-OpenAI")
	p, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &goopenai.Provider{}, p)

	cfg.Set("COMPLETION_BACKEND", "llama")
	_, err = New(cfg)
	assert.ErrorContains(t, err, "unknown COMPLETION_BACKEND")

	_, err = New(utils.NewConfig(nil))
	assert.Error(t, err)
}
