package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Roles a message can carry in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the ordered, append-only transcript of one chat session.
// It lives in memory for the lifetime of the process; there is no
// persistence. Append and Snapshot are safe for concurrent use.
type Conversation struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`

	mu       sync.Mutex
	messages []Message
}

// New creates an empty conversation with a fresh ID.
func New() *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
	}
}

// Append adds a message to the end of the transcript. Messages are never
// edited or removed afterwards.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

// Snapshot returns a copy of the transcript in insertion order.
func (c *Conversation) Snapshot() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len reports the number of messages in the transcript.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
