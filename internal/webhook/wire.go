package webhook

import (
	"encoding/json"
	"mime"
	"strings"

	"hookchat/internal/conversation"
)

// submitRequest is the body POSTed to the submission endpoint.
type submitRequest struct {
	Message             string         `json:"message"`
	Timestamp           string         `json:"timestamp"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

// HistoryEntry is one prior transcript message in the shape the endpoint
// expects.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// envelope covers the structured bodies the endpoint pair is known to
// return: the submission endpoint answers {"jobId": ...}, the status
// endpoint {"response": {"content": ...}}.
type envelope struct {
	JobID    string `json:"jobId"`
	Response *struct {
		Content string `json:"content"`
	} `json:"response"`
}

// historyFromMessages maps transcript messages to wire entries. The
// endpoint speaks "assistant", so the legacy "bot" role tag is renamed on
// the way out; everything else passes through unchanged.
func historyFromMessages(msgs []conversation.Message) []HistoryEntry {
	out := make([]HistoryEntry, len(msgs))
	for i, msg := range msgs {
		out[i] = HistoryEntry{
			Role:    normalizeRole(msg.Role),
			Content: msg.Content,
		}
	}
	return out
}

func normalizeRole(role string) string {
	if role == "bot" {
		return conversation.RoleAssistant
	}
	return role
}

// payload is the tagged result of decoding a response body: either the
// parsed structured envelope or the plain-text body. Both submission and
// status responses decode through this one step.
type payload struct {
	structured bool
	text       string
	env        envelope
}

// decodePayload inspects the declared content type and parses the body
// accordingly. A body that declares JSON but does not parse is a
// malformed-response failure; anything non-structured is taken verbatim
// (minus surrounding whitespace) as plain text.
func decodePayload(contentType string, body []byte) (payload, error) {
	if !isStructured(contentType) {
		return payload{text: strings.TrimSpace(string(body))}, nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return payload{}, &Error{Kind: KindMalformedResponse, Reason: "malformed response body", cause: err}
	}
	return payload{structured: true, env: env}, nil
}

// isStructured reports whether the content type declares a JSON-like body.
func isStructured(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
