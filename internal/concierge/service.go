// Package concierge dispatches guest events (submit, quick reply, reset) to sessions
// and drives one request/response cycle per event
package concierge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethanbaker/concierge/internal/stores/archive"
	"github.com/ethanbaker/concierge/internal/stores/session"
	"github.com/ethanbaker/concierge/pkg/completion"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/ethanbaker/concierge/pkg/language"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ErrorTurnFormat is the assistant turn appended when a completion fails
	ErrorTurnFormat = "Sorry, an error occurred during communication. Please try again later. (%s)"

	// CompletionNotice is the non-fatal notice shown next to a failed exchange
	CompletionNotice = "Error generating response. Check your API key and connection."
)

var (
	ErrInvalidSessionID  = errors.New("invalid session ID format")
	ErrSessionNotFound   = session.ErrSessionNotFound
	ErrUnknownQuickReply = errors.New("unknown quick reply")
)

// Options are the collaborators of a Service. Only Provider is required
type Options struct {
	Store    session.Store
	Provider completion.Provider
	Detector language.Detector
	Archive  archive.Archive
	Sweeper  *session.Sweeper
	Persona  *conversation.Persona
	Params   completion.Params
	Timeout  time.Duration
}

// Service handles guest events for every live session
type Service struct {
	store    session.Store
	provider completion.Provider
	detector language.Detector
	archive  archive.Archive
	sweeper  *session.Sweeper
	persona  *conversation.Persona
	params   completion.Params
	timeout  time.Duration

	logger zerolog.Logger
}

// Outcome describes what one event did to a session
type Outcome struct {
	Session *conversation.Session

	Input    conversation.Turn // user turn appended for the action
	Reply    conversation.Turn // assistant turn, either the completion or the error text
	Language string
	Notice   string

	Ignored bool // the input was empty and nothing happened
	Failed  bool // the completion failed and Reply holds the error text
	Dropped bool // the session was reset before the reply arrived
}

// NewService creates a service, filling unset collaborators with defaults
func NewService(opts Options) (*Service, error) {
	if opts.Provider == nil {
		return nil, errors.New("a completion provider is required")
	}

	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}
	if opts.Archive == nil {
		opts.Archive = archive.NopArchive{}
	}
	if opts.Persona == nil {
		opts.Persona = conversation.DefaultPersona()
	}
	if opts.Params == (completion.Params{}) {
		opts.Params = completion.DefaultParams()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = completion.DefaultTimeout
	}

	if err := opts.Persona.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		store:    opts.Store,
		provider: opts.Provider,
		detector: opts.Detector,
		archive:  opts.Archive,
		sweeper:  opts.Sweeper,
		persona:  opts.Persona,
		params:   opts.Params,
		timeout:  opts.Timeout,
		logger:   log.With().Str("component", "concierge").Logger(),
	}, nil
}

// Start begins background maintenance such as idle session sweeps
func (s *Service) Start() {
	if s.sweeper != nil {
		s.sweeper.Start()
	}
}

// Close stops background work and releases the archive
func (s *Service) Close(ctx context.Context) error {
	if s.sweeper != nil {
		s.sweeper.Stop(ctx)
	}
	return s.archive.Close()
}

// Persona returns the persona shared by every session
func (s *Service) Persona() *conversation.Persona {
	return s.persona
}

// QuickReplies returns the canned questions offered to guests
func (s *Service) QuickReplies() []conversation.QuickReply {
	return append([]conversation.QuickReply(nil), s.persona.QuickReplies...)
}

// SessionCount returns the number of live sessions
func (s *Service) SessionCount() int {
	return s.store.Count()
}

/** Session lifecycle **/

// NewSession creates a session seeded with the greeting
func (s *Service) NewSession(ctx context.Context) (*conversation.Session, error) {
	sess, err := s.store.CreateSession(ctx, s.persona)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	s.logger.Debug().Str("session", sess.ID.String()).Msg("session created")
	return sess, nil
}

// FindSession looks up a session by its string handle
func (s *Service) FindSession(ctx context.Context, sessionID string) (*conversation.Session, error) {
	guid, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSessionID, "%q", sessionID)
	}

	return s.store.GetSession(ctx, guid)
}

// RemoveSession tears a session down
func (s *Service) RemoveSession(ctx context.Context, sessionID string) error {
	guid, err := uuid.Parse(sessionID)
	if err != nil {
		return errors.Wrapf(ErrInvalidSessionID, "%q", sessionID)
	}

	return s.store.DeleteSession(ctx, guid)
}

/** Events **/

// Submit handles free text typed by the guest
func (s *Service) Submit(ctx context.Context, sessionID, text string) (*Outcome, error) {
	sess, err := s.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.handle(ctx, sess, text)
}

// QuickReply handles a canned-question button. It is the same as submitting the question text
func (s *Service) QuickReply(ctx context.Context, sessionID, replyID string) (*Outcome, error) {
	sess, err := s.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reply, ok := s.persona.QuickReply(replyID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownQuickReply, "%q", replyID)
	}

	return s.handle(ctx, sess, reply.Question)
}

// Reset returns the session to its greeting. A reply still in flight is discarded
func (s *Service) Reset(ctx context.Context, sessionID string) (*conversation.Session, error) {
	sess, err := s.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Reset()
	s.logger.Debug().Str("session", sess.ID.String()).Msg("session reset")

	return sess, nil
}

func (s *Service) handle(ctx context.Context, sess *conversation.Session, text string) (*Outcome, error) {
	action, err := sess.BeginAction(text)
	if errors.Is(err, conversation.ErrEmptyInput) {
		return &Outcome{Session: sess, Ignored: true}, nil
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Session:  sess,
		Input:    action.Input(),
		Language: language.DetectOrDefault(s.detector, text),
	}

	logger := s.logger.With().Str("session", sess.ID.String()).Str("language", out.Language).Logger()

	reply, err := s.requestCompletion(ctx, action.Payload())
	if err != nil {
		logger.Warn().Err(err).Msg("completion failed")

		reply = fmt.Sprintf(ErrorTurnFormat, err.Error())
		out.Failed = true
		out.Notice = CompletionNotice
	}
	out.Reply = conversation.AssistantTurn(reply)

	if !action.Complete(reply) {
		logger.Info().Msg("session was reset while awaiting completion, reply dropped")
		out.Dropped = true
		return out, nil
	}

	s.record(ctx, sess, out)
	return out, nil
}

// requestCompletion is the only blocking call of an event
func (s *Service) requestCompletion(ctx context.Context, payload []conversation.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.provider.Complete(ctx, payload, s.params)
	s.logger.Debug().
		Int("turns", len(payload)).
		Dur("elapsed", time.Since(start)).
		Msg("completion requested")

	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", completion.ErrEmptyReply
	}

	return reply, nil
}

func (s *Service) record(ctx context.Context, sess *conversation.Session, out *Outcome) {
	err := s.archive.Record(context.WithoutCancel(ctx), &archive.Exchange{
		SessionID: sess.ID,
		Language:  out.Language,
		UserText:  out.Input.Content,
		Reply:     out.Reply.Content,
		Failed:    out.Failed,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session", sess.ID.String()).Msg("failed to archive exchange")
	}
}
