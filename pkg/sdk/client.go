// Package sdk is a Go client of the concierge chat API
package sdk

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// APIError is returned when the backend answers with a fail or error envelope
type APIError struct {
	Code    int
	Status  api_types.StatusType
	Message string
	Detail  any
}

func (e *APIError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("concierge api %d (%s): %s: %v", e.Code, e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("concierge api %d (%s): %s", e.Code, e.Status, e.Message)
}

// Client wraps calls to the concierge backend
type Client struct {
	http *resty.Client
}

// NewClient creates a client. apiKey may be empty when the backend does not require one
func NewClient(baseURL, apiKey string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second).
		SetHeader("Content-Type", "application/json")

	if apiKey != "" {
		r.SetHeader("X-API-KEY", apiKey)
	}

	return &Client{http: r}
}

// QuickReplies lists the canned questions
func (c *Client) QuickReplies(ctx context.Context) ([]QuickReply, error) {
	var out ApiResponse[[]QuickReply]
	if err := c.do(ctx, resty.MethodGet, "/api/chat/quick-replies", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateSession starts a new conversation
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var out ApiResponse[Session]
	if err := c.do(ctx, resty.MethodPost, "/api/chat/sessions", nil, &out); err != nil {
		return nil, err
	}

	if out.Data.ID == "" {
		return nil, errors.New("no id returned")
	}

	return &out.Data, nil
}

// GetSession gets a session by UUID
func (c *Client) GetSession(ctx context.Context, uuid string) (*Session, error) {
	var out ApiResponse[Session]
	if err := c.do(ctx, resty.MethodGet, sessionPath(uuid), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SendMessage sends free text to a session
func (c *Client) SendMessage(ctx context.Context, uuid string, msg *PostMessageRequest) (*ExchangeResponse, error) {
	var out ApiResponse[ExchangeResponse]
	if err := c.do(ctx, resty.MethodPost, sessionPath(uuid)+"/message", msg, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// QuickReply presses a quick reply button in a session
func (c *Client) QuickReply(ctx context.Context, uuid, replyID string) (*ExchangeResponse, error) {
	var out ApiResponse[ExchangeResponse]
	if err := c.do(ctx, resty.MethodPost, sessionPath(uuid)+"/quick-replies/"+url.PathEscape(replyID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Reset clears a session back to its greeting
func (c *Client) Reset(ctx context.Context, uuid string) (*Session, error) {
	var out ApiResponse[Session]
	if err := c.do(ctx, resty.MethodPost, sessionPath(uuid)+"/reset", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteSession deletes an existing session by UUID
func (c *Client) DeleteSession(ctx context.Context, uuid string) error {
	var out ApiResponse[any]
	return c.do(ctx, resty.MethodDelete, sessionPath(uuid), nil, &out)
}

func sessionPath(uuid string) string {
	return "/api/chat/sessions/" + url.PathEscape(uuid)
}

// do performs a JSON request and unwraps the response envelope
func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var failure ApiResponse[any]

	req := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&failure)
	if in != nil {
		req.SetBody(in)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	if resp.IsError() {
		return &APIError{
			Code:    resp.StatusCode(),
			Status:  failure.Status,
			Message: failure.Message,
			Detail:  failure.Error,
		}
	}

	return nil
}
