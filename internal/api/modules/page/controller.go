package page

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// CookieName holds the session handle of the browser
	CookieName = "concierge_session"

	noticeParam      = "notice"
	noticeCompletion = "completion"
)

// Controller renders the widget and handles its form posts
type Controller struct {
	svc  *concierge.Service
	tmpl *template.Template
}

type pageData struct {
	Persona      *conversation.Persona
	Turns        []conversation.Turn
	QuickReplies []conversation.QuickReply
	Typing       bool
	TypingText   string
	Notice       string
}

// Show renders the transcript of the browser's session, creating one if needed
func (ctrl *Controller) Show(c *gin.Context) {
	sess, err := ctrl.session(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to start a conversation")
		return
	}

	persona := ctrl.svc.Persona()
	data := pageData{
		Persona:      persona,
		Turns:        sess.Transcript(),
		QuickReplies: ctrl.svc.QuickReplies(),
		Typing:       sess.State() == conversation.StateAwaitingCompletion,
		TypingText:   fmt.Sprintf("%s is typing...", persona.Name),
	}
	if c.Query(noticeParam) == noticeCompletion {
		data.Notice = concierge.CompletionNotice
	}

	c.Header("Cache-Control", "no-store")
	c.Render(http.StatusOK, render.HTML{Template: ctrl.tmpl, Name: "widget.html", Data: data})
}

// PostMessage handles the free-text form
func (ctrl *Controller) PostMessage(c *gin.Context) {
	sess, err := ctrl.session(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to start a conversation")
		return
	}

	out, err := ctrl.svc.Submit(c.Request.Context(), sess.ID.String(), c.PostForm("message"))
	ctrl.finish(c, out, err)
}

// PostQuickReply handles a quick reply button
func (ctrl *Controller) PostQuickReply(c *gin.Context) {
	sess, err := ctrl.session(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to start a conversation")
		return
	}

	out, err := ctrl.svc.QuickReply(c.Request.Context(), sess.ID.String(), c.Param("id"))
	if errors.Is(err, concierge.ErrUnknownQuickReply) {
		c.String(http.StatusNotFound, "unknown quick reply")
		return
	}
	ctrl.finish(c, out, err)
}

// Reset handles the clear button
func (ctrl *Controller) Reset(c *gin.Context) {
	sess, err := ctrl.session(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to start a conversation")
		return
	}

	if _, err := ctrl.svc.Reset(c.Request.Context(), sess.ID.String()); err != nil {
		log.Error().Str("component", "page").Err(err).Msg("reset failed")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// finish redirects back to the page after an event
func (ctrl *Controller) finish(c *gin.Context, out *concierge.Outcome, err error) {
	switch {
	case errors.Is(err, conversation.ErrActionInFlight):
		// the page shows the typing indicator until the pending reply lands
	case err != nil:
		log.Error().Str("component", "page").Err(err).Msg("event failed")
	case out.Failed:
		c.Redirect(http.StatusSeeOther, "/?"+noticeParam+"="+noticeCompletion)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// session resolves the cookie to a live session or starts a new one
func (ctrl *Controller) session(c *gin.Context) (*conversation.Session, error) {
	if id, err := c.Cookie(CookieName); err == nil {
		if sess, err := ctrl.svc.FindSession(c.Request.Context(), id); err == nil {
			return sess, nil
		}
	}

	sess, err := ctrl.svc.NewSession(c.Request.Context())
	if err != nil {
		log.Error().Str("component", "page").Err(err).Msg("failed to create session")
		return nil, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, sess.ID.String(), 0, "/", "", c.Request.TLS != nil, true)

	return sess, nil
}
