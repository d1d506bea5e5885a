package config

import "time"

// The endpoint pair is fixed configuration; the flags in cmd/hookchat can
// point the client at another deployment, but nothing is read from the
// environment or from disk.
const (
	DefaultWebhookURL = "https://hooks.example.com/webhook/chat"
	DefaultStatusURL  = "https://hooks.example.com/webhook/chat-status"

	// PollInterval is the fixed delay between status queries. MaxPollRetries
	// caps how many retries follow the initial attempt before the wait is
	// declared dead; there is no backoff.
	PollInterval   = 1 * time.Second
	MaxPollRetries = 30

	// RequestTimeout bounds each individual HTTP exchange.
	RequestTimeout = 60 * time.Second
)

// Config holds application configuration
type Config struct {
	WebhookURL     string
	StatusURL      string
	PollInterval   time.Duration
	MaxPollRetries int
	RequestTimeout time.Duration
	Debug          bool
}

// Default returns the built-in endpoint pair and timing defaults.
func Default() Config {
	return Config{
		WebhookURL:     DefaultWebhookURL,
		StatusURL:      DefaultStatusURL,
		PollInterval:   PollInterval,
		MaxPollRetries: MaxPollRetries,
		RequestTimeout: RequestTimeout,
	}
}
