package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/singampalli/ideaminds/pkg/inference"
	"github.com/singampalli/ideaminds/pkg/kv"
	"github.com/singampalli/ideaminds/pkg/notepad"
)

// ErrNoPersona is returned by Send before a persona is selected.
var ErrNoPersona = errors.New("persona: please select a persona")

// Sender identifies who wrote a transcript message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// Message is one transcript entry. Text is markdown.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithNotes sets the store the idea text is read from.
func WithNotes(store kv.Store) SessionOption {
	return func(s *Session) {
		s.notes = store
	}
}

// WithConsiderIdea sets whether questions are framed around the idea.
// Enabled by default.
func WithConsiderIdea(enabled bool) SessionOption {
	return func(s *Session) {
		s.considerIdea = enabled
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is a chat with one selected persona.
type Session struct {
	mu           sync.Mutex
	client       inference.Client
	notes        kv.Store
	considerIdea bool
	logger       *zap.Logger
	now          func() time.Time

	persona  *Persona
	messages []Message
}

// NewSession returns an empty session that generates through client.
func NewSession(client inference.Client, options ...SessionOption) *Session {
	s := &Session{
		client:       client,
		considerIdea: true,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Select makes p the active persona.
func (s *Session) Select(p Persona) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = &p
	return nil
}

// Persona returns the active persona.
func (s *Session) Persona() (Persona, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persona == nil {
		return Persona{}, false
	}
	return *s.persona, true
}

// SetConsiderIdea toggles idea framing for later messages.
func (s *Session) SetConsiderIdea(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.considerIdea = enabled
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Send records text as a user message and appends the persona's reply. Blank
// text is ignored. Generation failures are not returned: they append a
// system message instead, which is also the returned reply.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	s.mu.Lock()
	if s.persona == nil {
		s.mu.Unlock()
		return Message{}, ErrNoPersona
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return Message{}, nil
	}
	p := *s.persona
	considerIdea := s.considerIdea
	s.appendLocked(SenderUser, text)
	s.mu.Unlock()

	idea, err := s.idea(ctx)
	if err != nil {
		s.logger.Warn("read idea failed", zap.Error(err))
	}

	prompt := BuildPrompt(p, text, idea, considerIdea)
	response, err := s.client.Generate(ctx, inference.Request{Prompt: prompt})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error("persona response failed", zap.String("persona", p.Name), zap.Error(err))
		return s.appendLocked(SenderSystem, fmt.Sprintf("⚠️ %s: Failed to generate response.", p.Name)), nil
	}
	return s.appendLocked(SenderAI, fmt.Sprintf("%s: %s", p.Name, response)), nil
}

// Reset clears the transcript and keeps the selected persona.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

func (s *Session) idea(ctx context.Context) (string, error) {
	if s.notes == nil {
		return "", nil
	}
	value, _, err := s.notes.Get(ctx, notepad.StorageKey)
	return value, err
}

func (s *Session) appendLocked(sender Sender, text string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}
