package engine

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
)

// Session accumulates the message history of one engine run.
type Session struct {
	// ID identifies this run; it doubles as the RequestID passed to
	// tools.
	ID string

	// TurnCount is the number of model calls made so far.
	TurnCount int

	messages []anthropic.MessageParam
}

// NewSession creates a session with a fresh ID.
func NewSession() *Session {
	return &Session{
		ID: uuid.New().String(),
	}
}

// RestoreHistory seeds the session with prior conversation messages.
func (s *Session) RestoreHistory(history []anthropic.MessageParam) {
	s.messages = append(s.messages, history...)
}

// AddUserMessage appends a plain-text user message.
func (s *Session) AddUserMessage(text string) {
	s.messages = append(s.messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
}

// AddAssistantResponse appends the model's response verbatim, including
// any tool_use blocks.
func (s *Session) AddAssistantResponse(resp *anthropic.Message) {
	s.messages = append(s.messages, resp.ToParam())
}

// AddToolResults appends tool results as a user message, as the API
// requires.
func (s *Session) AddToolResults(results []anthropic.ContentBlockParamUnion) {
	s.messages = append(s.messages, anthropic.NewUserMessage(results...))
}

// Messages returns the accumulated history.
func (s *Session) Messages() []anthropic.MessageParam {
	return s.messages
}
