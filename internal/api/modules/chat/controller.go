package chat

import (
	"net/http"

	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/ethanbaker/concierge/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Controller serves the JSON chat API
type Controller struct {
	svc *concierge.Service
}

// ListQuickReplies handles GET requests for the canned questions
func (ctrl *Controller) ListQuickReplies(c *gin.Context) {
	replies := ctrl.svc.QuickReplies()

	out := make([]sdk.QuickReply, 0, len(replies))
	for _, r := range replies {
		out = append(out, sdk.QuickReply{ID: r.ID, Label: r.Label, Question: r.Question})
	}

	c.JSON(sdk.NewSuccessResponse("Quick replies retrieved successfully", out).AsGinResponse())
}

// CreateSession handles POST requests to create a new session
func (ctrl *Controller) CreateSession(c *gin.Context) {
	sess, err := ctrl.svc.NewSession(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session created successfully", toSDKSession(sess)).AsGinResponse())
}

// GetSession handles GET requests to retrieve an existing session by UUID
func (ctrl *Controller) GetSession(c *gin.Context) {
	sess, err := ctrl.svc.FindSession(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, err, "Failed to get session")
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session retrieved successfully", toSDKSession(sess)).AsGinResponse())
}

// DeleteSession handles DELETE requests to remove an existing session
func (ctrl *Controller) DeleteSession(c *gin.Context) {
	if err := ctrl.svc.RemoveSession(c.Request.Context(), c.Param("uuid")); err != nil {
		respondError(c, err, "Failed to delete session")
		return
	}

	c.JSON(sdk.NewSuccessResponse[any]("Session deleted successfully", nil).AsGinResponse())
}

// PostMessage handles POST requests to send free text to a session
func (ctrl *Controller) PostMessage(c *gin.Context) {
	var req sdk.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewFailResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	out, err := ctrl.svc.Submit(c.Request.Context(), c.Param("uuid"), req.Content)
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}

	c.JSON(sdk.NewSuccessResponse("Message sent successfully", toSDKExchange(out)).AsGinResponse())
}

// PostQuickReply handles POST requests for a quick reply button
func (ctrl *Controller) PostQuickReply(c *gin.Context) {
	out, err := ctrl.svc.QuickReply(c.Request.Context(), c.Param("uuid"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to send quick reply")
		return
	}

	c.JSON(sdk.NewSuccessResponse("Quick reply sent successfully", toSDKExchange(out)).AsGinResponse())
}

// ResetSession handles POST requests to clear a conversation
func (ctrl *Controller) ResetSession(c *gin.Context) {
	sess, err := ctrl.svc.Reset(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, err, "Failed to reset session")
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session reset successfully", toSDKSession(sess)).AsGinResponse())
}

// respondError maps service errors to HTTP statuses
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, concierge.ErrInvalidSessionID):
		c.JSON(sdk.NewFailResponse(http.StatusBadRequest, "Invalid session ID", err.Error()).AsGinResponse())
	case errors.Is(err, concierge.ErrSessionNotFound):
		c.JSON(sdk.NewFailResponse(http.StatusNotFound, "Session not found", err.Error()).AsGinResponse())
	case errors.Is(err, concierge.ErrUnknownQuickReply):
		c.JSON(sdk.NewFailResponse(http.StatusNotFound, "Quick reply not found", err.Error()).AsGinResponse())
	case errors.Is(err, conversation.ErrActionInFlight):
		c.JSON(sdk.NewFailResponse(http.StatusConflict, "A reply is still being generated", err.Error()).AsGinResponse())
	default:
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, message, err.Error()).AsGinResponse())
	}
}

// Helper method to convert a conversation session to an sdk session
func toSDKSession(sess *conversation.Session) sdk.Session {
	turns := sess.Transcript()

	out := sdk.Session{
		ID:        sess.ID.String(),
		CreatedAt: sess.CreatedAt,
		State:     string(sess.State()),
		Turns:     make([]sdk.Turn, 0, len(turns)),
	}
	for _, t := range turns {
		out.Turns = append(out.Turns, toSDKTurn(t))
	}

	return out
}

func toSDKTurn(t conversation.Turn) sdk.Turn {
	return sdk.Turn{Role: t.Role.String(), Content: t.Content}
}

func toSDKExchange(out *concierge.Outcome) sdk.ExchangeResponse {
	resp := sdk.ExchangeResponse{
		Session:  toSDKSession(out.Session),
		Language: out.Language,
		Notice:   out.Notice,
		Ignored:  out.Ignored,
		Failed:   out.Failed,
		Dropped:  out.Dropped,
	}

	if !out.Ignored {
		reply := toSDKTurn(out.Reply)
		resp.Reply = &reply
	}

	return resp
}
