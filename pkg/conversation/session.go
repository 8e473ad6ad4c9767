package conversation

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyInput is returned when an action is started without any text
	ErrEmptyInput = errors.New("empty input")

	// ErrActionInFlight is returned when an action is started while another one is awaiting completion
	ErrActionInFlight = errors.New("an action is already awaiting completion")
)

// State is the turn-taking state of a session
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingCompletion State = "awaiting_completion"
)

// Session holds the ordered transcript of one guest conversation
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	greeting    string
	instruction string

	mu     sync.RWMutex
	turns  []Turn
	action *Action // nil while idle
}

// NewSession creates a session seeded with the persona greeting
func NewSession(persona *Persona) *Session {
	if persona == nil {
		persona = DefaultPersona()
	}

	s := &Session{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		greeting:    persona.Greeting,
		instruction: persona.SystemInstruction,
	}
	s.turns = s.seed()

	return s
}

/** Transcript operations **/

// AppendUserTurn appends a guest turn. Empty text is ignored and reports false
func (s *Session) AppendUserTurn(text string) bool {
	if isBlank(text) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, UserTurn(text))
	return true
}

// AppendAssistantTurn appends an assistant turn
func (s *Session) AppendAssistantTurn(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, AssistantTurn(text))
}

// Reset replaces the transcript with the seeded greeting.
// A reply still in flight for the previous conversation will be dropped, and the
// session keeps rejecting new actions until that request returns
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = s.seed()
	if s.action != nil {
		s.action.discarded = true
	}
}

// BuildRequest returns the system instruction followed by the full transcript
func (s *Session) BuildRequest() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.buildRequest()
}

// Transcript returns a copy of the transcript in chronological order
func (s *Session) Transcript() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.turns)
}

// Len returns the number of turns in the transcript
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.turns)
}

// LastTurn returns the most recent turn
func (s *Session) LastTurn() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// State reports whether the session is waiting on a completion
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.action != nil {
		return StateAwaitingCompletion
	}
	return StateIdle
}

/** Actions **/

// Action is one user action awaiting its completion
type Action struct {
	session *Session
	input   Turn
	payload []Turn

	discarded bool // set by Reset, guarded by session.mu
}

// BeginAction appends the user turn for one logical action and snapshots the request payload.
// Only one action may be in flight per session
func (s *Session) BeginAction(text string) (*Action, error) {
	if isBlank(text) {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.action != nil {
		return nil, ErrActionInFlight
	}

	turn := UserTurn(text)
	s.turns = append(s.turns, turn)

	a := &Action{
		session: s,
		input:   turn,
		payload: s.buildRequest(),
	}
	s.action = a

	return a, nil
}

// Input returns the user turn that started the action
func (a *Action) Input() Turn {
	return a.input
}

// Payload returns the request payload captured when the action started
func (a *Action) Payload() []Turn {
	return slices.Clone(a.payload)
}

// Complete appends the assistant reply and returns the session to idle.
// It reports false, appending nothing, when the session was reset in the meantime
func (a *Action) Complete(reply string) bool {
	s := a.session

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.action != a {
		return false
	}
	s.action = nil

	if a.discarded {
		return false
	}

	s.turns = append(s.turns, AssistantTurn(reply))
	return true
}

/** Helpers **/

func (s *Session) seed() []Turn {
	return []Turn{AssistantTurn(s.greeting)}
}

// buildRequest expects s.mu to be held
func (s *Session) buildRequest() []Turn {
	payload := make([]Turn, 0, len(s.turns)+1)
	payload = append(payload, SystemTurn(s.instruction))
	return append(payload, s.turns...)
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
