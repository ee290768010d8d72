package transcript

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session is one recorded chat conversation.
type Session struct {
	ID         string
	StartedAt  time.Time
	DocumentID string // scoped document, empty when the whole corpus was searched
	Turns      int
}

// Message is one entry in a session's transcript. Seq preserves the order
// messages were appended in; assistant rows carry sources and confidence.
type Message struct {
	SessionID  string
	Seq        int64
	Role       string
	Content    string
	Sources    string // JSON array stored as text
	Confidence *float64
	CreatedAt  time.Time
}
