package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"hookchat/internal/conversation"
)

// CachedResponse represents a reply already obtained for some transcript.
type CachedResponse struct {
	Response  string
	Timestamp time.Time
}

// Key derives the cache key for a transcript snapshot. Two transcripts that
// agree on every role and content hash to the same key; timestamps do not
// participate.
func Key(messages []conversation.Message) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Content))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
