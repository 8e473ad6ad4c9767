package sdk

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	}
}

// NewFailResponse is used for requests the client got wrong (4xx)
func NewFailResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusFail,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// PostMessageRequest represents the request body for adding a message to a session.
// Blank content is accepted and ignored
type PostMessageRequest struct {
	Content string `json:"content"`
}

/** Responses */

// Turn is one message of a transcript
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session represents a guest conversation
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	State     string    `json:"state"` // idle or awaiting_completion

	Turns []Turn `json:"turns"`
}

// QuickReply is a canned question offered as a button
type QuickReply struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Question string `json:"question"`
}

// ExchangeResponse is the result of a message or quick reply
type ExchangeResponse struct {
	Session  Session `json:"session"`
	Reply    *Turn   `json:"reply,omitempty"` // nil when the input was ignored
	Language string  `json:"language,omitempty"`
	Notice   string  `json:"notice,omitempty"`

	Ignored bool `json:"ignored"`
	Failed  bool `json:"failed"`
	Dropped bool `json:"dropped"`
}
