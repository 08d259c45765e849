// Package transcript keeps the append-only chat transcript between the user
// and the assistant.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Confidence and SpatialContext are set on assistant messages when
	// the backend reported them.
	Confidence     string `json:"confidence,omitempty"`
	SpatialContext string `json:"spatial_context,omitempty"`
}

// Log is an append-only message log.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog creates a log, seeded with a welcome message when one is given.
func NewLog(welcome string) *Log {
	l := &Log{}
	if welcome != "" {
		l.AppendAssistant(welcome, "", "")
	}
	return l
}

// AppendUser records a user message.
func (l *Log) AppendUser(text string) Message {
	return l.append(Message{Role: RoleUser, Text: text})
}

// AppendAssistant records an assistant message.
func (l *Log) AppendAssistant(text, confidence, spatialContext string) Message {
	return l.append(Message{
		Role:           RoleAssistant,
		Text:           text,
		Confidence:     confidence,
		SpatialContext: spatialContext,
	})
}

func (l *Log) append(m Message) Message {
	m.ID = "msg_" + uuid.New().String()[:12]
	m.Timestamp = time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
	return m
}

// Messages returns a copy of the transcript in order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}
