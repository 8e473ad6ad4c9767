package sdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethanbaker/concierge/internal/api"
	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/ethanbaker/concierge/pkg/sdk"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := completion.ProviderFunc(func(_ context.Context, turns []conversation.Turn, _ completion.Params) (string, error) {
		last := turns[len(turns)-1].Content
		if strings.Contains(last, "Wi-Fi") {
			return "", errors.New("upstream unavailable")
		}
		return "Answer to: " + last, nil
	})

	svc, err := concierge.NewService(concierge.Options{Provider: provider})
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewEngine(utils.NewConfig(map[string]string{"API_KEY": "secret"}), svc))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientConversation(t *testing.T) {
	srv := newTestServer(t)
	client := sdk.NewClient(srv.URL, "secret")
	ctx := context.Background()

	replies, err := client.QuickReplies(ctx)
	require.NoError(t, err)
	require.Len(t, replies, 3)

	sess, err := client.CreateSession(ctx)
	require.NoError(t, err)
	require.Len(t, sess.Turns, 1)

	ex, err := client.SendMessage(ctx, sess.ID, &sdk.PostMessageRequest{Content: "What time is breakfast?"})
	require.NoError(t, err)
	require.NotNil(t, ex.Reply)
	assert.Equal(t, "Answer to: What time is breakfast?", ex.Reply.Content)
	assert.Equal(t, "assistant", ex.Reply.Role)

	ex, err = client.QuickReply(ctx, sess.ID, "wifi")
	require.NoError(t, err)
	assert.True(t, ex.Failed)
	assert.Equal(t, concierge.CompletionNotice, ex.Notice)
	assert.Len(t, ex.Session.Turns, 5)

	got, err := client.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Session.Turns, got.Turns)

	got, err = client.Reset(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Turns, 1)

	require.NoError(t, client.DeleteSession(ctx, sess.ID))

	_, err = client.GetSession(ctx, sess.ID)
	var apiErr *sdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
}

func TestClientErrors(t *testing.T) {
	srv := newTestServer(t)
	client := sdk.NewClient(srv.URL, "secret")
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
		code int
	}{
		{
			name: "invalid id",
			run:  func() error { _, err := client.GetSession(ctx, "not-a-uuid"); return err },
			code: http.StatusBadRequest,
		},
		{
			name: "unknown session",
			run:  func() error { _, err := client.Reset(ctx, uuid.NewString()); return err },
			code: http.StatusNotFound,
		},
		{
			name: "unknown quick reply",
			run: func() error {
				sess, err := client.CreateSession(ctx)
				if err != nil {
					return err
				}
				_, err = client.QuickReply(ctx, sess.ID, "spa")
				return err
			},
			code: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *sdk.APIError
			require.ErrorAs(t, tt.run(), &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestClientWithoutKey(t *testing.T) {
	srv := newTestServer(t)

	_, err := sdk.NewClient(srv.URL, "").CreateSession(context.Background())
	assert.Error(t, err)
}

func TestClientUnreachable(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	_, err := sdk.NewClient(url, "secret").CreateSession(context.Background())
	require.Error(t, err)

	var apiErr *sdk.APIError
	assert.False(t, errors.As(err, &apiErr))
}
