package openaigo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	return string(body)
}

func TestProviderComplete(t *testing.T) {
	var got capturedRequest
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  Breakfast is served from 7 to 10.  ")))
	}))
	defer srv.Close()

	p, err := New(Options{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	turns := []conversation.Turn{
		conversation.SystemTurn("be helpful"),
		conversation.AssistantTurn("Hello"),
		conversation.UserTurn("What time is breakfast?"),
	}

	reply, err := p.Complete(context.Background(), turns, completion.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Breakfast is served from 7 to 10.", reply)

	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, completion.DefaultModel, got.Model)
	assert.InDelta(t, completion.DefaultTemperature, got.Temperature, 1e-9)
	assert.Equal(t, completion.DefaultMaxTokens, got.MaxTokens)

	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be helpful", got.Messages[0].Content)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "user", got.Messages[2].Role)
	assert.Equal(t, "What time is breakfast?", got.Messages[2].Content)
}

func TestProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom","type":"server_error"}}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{name: "blank reply", status: http.StatusOK, body: completionBody("   "), wantErr: completion.ErrEmptyReply},
		{name: "no choices", status: http.StatusOK, body: `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, wantErr: completion.ErrEmptyReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := New(Options{APIKey: "test-key", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = p.Complete(context.Background(), []conversation.Turn{conversation.UserTurn("hi")}, completion.DefaultParams())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, int32(1), calls.Load(), "requests are never retried")
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestUnsupportedRole(t *testing.T) {
	p, err := New(Options{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []conversation.Turn{{Role: "tool", Content: "x"}}, completion.DefaultParams())
	assert.ErrorContains(t, err, "unsupported role")
}
