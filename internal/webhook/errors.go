package webhook

import (
	"fmt"
	"net/http"
)

// Kind classifies a failed submit or poll exchange.
type Kind string

const (
	KindInvalidRequest    Kind = "invalid_request"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindRateLimited       Kind = "rate_limited"
	KindServerError       Kind = "server_error"
	KindUnexpectedStatus  Kind = "unexpected_status"
	KindConnectionError   Kind = "connection_error"
	KindNoJobID           Kind = "no_job_id"
	KindTimeout           Kind = "timeout"
	KindMalformedResponse Kind = "malformed_response"
)

// Error describes a failed exchange with the webhook pair. Status holds the
// HTTP status code when one was received, zero otherwise. Reason is the
// human-readable mapping that ends up in the user-facing failure message.
type Error struct {
	Kind   Kind
	Status int
	Reason string
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("webhook: %s (status %d)", e.Reason, e.Status)
	case e.cause != nil:
		return fmt.Sprintf("webhook: %s: %v", e.Reason, e.cause)
	default:
		return "webhook: " + e.Reason
	}
}

func (e *Error) Unwrap() error { return e.cause }

// classifyStatus maps a non-2xx response status to its failure kind and
// reason. The code itself is preserved alongside the mapping.
func classifyStatus(status int) *Error {
	var kind Kind
	var reason string
	switch status {
	case http.StatusBadRequest:
		kind, reason = KindInvalidRequest, "invalid request format"
	case http.StatusUnauthorized:
		kind, reason = KindUnauthorized, "unauthorized"
	case http.StatusForbidden:
		kind, reason = KindForbidden, "forbidden"
	case http.StatusTooManyRequests:
		kind, reason = KindRateLimited, "rate limited"
	case http.StatusInternalServerError:
		kind, reason = KindServerError, "internal server error"
	default:
		kind, reason = KindUnexpectedStatus, fmt.Sprintf("unexpected status %d", status)
	}
	return &Error{Kind: kind, Status: status, Reason: reason}
}

func connectionError(err error) *Error {
	return &Error{Kind: KindConnectionError, Reason: "could not reach the server", cause: err}
}
