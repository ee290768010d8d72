// Package session implements the conversational query session: an
// append-only message log, the in-flight submit guard, and the projection of
// prior turns into backend conversation history.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/documind/cli/internal/gateway"
)

// FallbackAnswer is appended as the assistant turn when a query fails with a
// transport or protocol error. The user's question stays in the log; there is
// no automatic retry. Resubmitting is a deliberate user action.
const FallbackAnswer = "I'm sorry, I ran into a problem answering that. Please try again."

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn. Messages are append-only: once in the log they
// are never mutated, and ids increase strictly in append order.
type Message struct {
	ID         int64
	Role       Role
	Content    string
	Sources    []gateway.Source // assistant messages only, never nil
	Confidence *float64         // assistant messages only, nil when absent
	Timestamp  time.Time
}

var (
	// ErrEmptyQuestion is returned when the submitted text is blank after
	// trimming.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrSubmitInFlight is returned when a submit arrives while another one
	// is still pending. The UI disables input during submission, so hitting
	// this means the guard did its job.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// Querier is the slice of the gateway the session needs.
type Querier interface {
	Query(ctx context.Context, req gateway.QueryRequest) (gateway.QueryResponse, error)
}

// ScopeProvider supplies the document scope captured at submit time.
type ScopeProvider interface {
	Selected() (id string, ok bool)
}

// Sink observes every log append. The terminal client renders the message
// immediately, the CLI analog of scrolling a chat view to the newest entry.
type Sink interface {
	MessageAppended(Message)
}

// Notifier surfaces transient, dismissable error notices to the user.
type Notifier interface {
	Notify(message string)
}

// Session is the chat state machine. All transitions are atomic under mu;
// the only suspension point is the gateway call, which runs outside the lock
// while the submitting flag keeps the log frozen against re-entrant submits.
type Session struct {
	querier    Querier
	scope      ScopeProvider
	sink       Sink
	notifier   Notifier
	maxResults int

	mu         sync.Mutex
	messages   []Message
	nextID     int64
	submitting bool
}

// Config carries the session's collaborators. Sink and Notifier may be nil.
type Config struct {
	Querier    Querier
	Scope      ScopeProvider
	Sink       Sink
	Notifier   Notifier
	MaxResults int
}

// New creates an empty session.
func New(cfg Config) *Session {
	return &Session{
		querier:    cfg.Querier,
		scope:      cfg.Scope,
		sink:       cfg.Sink,
		notifier:   cfg.Notifier,
		maxResults: cfg.MaxResults,
		nextID:     1,
	}
}

// Submit appends the question as a user message, queries the backend with
// the conversation history as it stood before this question, and appends the
// assistant reply. Transport and protocol failures are absorbed here: they
// become the fallback assistant message plus a transient notification, and
// Submit returns nil. An AuthError is the one failure that escapes; the
// session itself is invalid and only the shell can handle that.
func (s *Session) Submit(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.submitting = true

	// History is projected from the log before the new user message: the
	// in-flight question travels in the query field, not in the history.
	history := s.projectLocked()
	userMsg := s.appendLocked(RoleUser, question, nil, nil)
	var docID string
	if s.scope != nil {
		if id, ok := s.scope.Selected(); ok {
			docID = id
		}
	}
	s.mu.Unlock()

	s.emit(userMsg)

	resp, err := s.querier.Query(ctx, gateway.QueryRequest{
		Query:               question,
		ConversationHistory: history,
		MaxResults:          s.maxResults,
		DocumentID:          docID,
	})

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		if gateway.IsAuth(err) {
			s.mu.Unlock()
			return err
		}
		fallback := s.appendLocked(RoleAssistant, FallbackAnswer, []gateway.Source{}, nil)
		s.mu.Unlock()
		s.emit(fallback)
		s.notify("Query failed: " + err.Error())
		return nil
	}
	answer := s.appendLocked(RoleAssistant, resp.Answer, resp.Sources, resp.Confidence)
	s.mu.Unlock()

	s.emit(answer)
	return nil
}

// appendLocked creates the next message in id order. Caller holds mu.
func (s *Session) appendLocked(role Role, content string, sources []gateway.Source, confidence *float64) Message {
	m := Message{
		ID:         s.nextID,
		Role:       role,
		Content:    content,
		Sources:    sources,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
	s.nextID++
	s.messages = append(s.messages, m)
	return m
}

// projectLocked flattens the log into role/content turns. Caller holds mu.
func (s *Session) projectLocked() []gateway.ConversationTurn {
	turns := make([]gateway.ConversationTurn, len(s.messages))
	for i, m := range s.messages {
		turns[i] = gateway.ConversationTurn{Role: string(m.Role), Content: m.Content}
	}
	return turns
}

func (s *Session) emit(m Message) {
	if s.sink != nil {
		s.sink.MessageAppended(m)
	}
}

func (s *Session) notify(msg string) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

// Messages returns a copy of the log in append order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Len returns the number of messages in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Submitting reports whether a submission is in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Clear wipes the local log. Ids keep increasing; they only need to be
// unique within the process.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
