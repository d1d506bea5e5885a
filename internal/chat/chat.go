package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"hookchat/internal/cache"
	"hookchat/internal/config"
	"hookchat/internal/conversation"
	"hookchat/internal/webhook"
)

// Chat owns one conversation and drives the submit-or-poll cycle for each
// user input. Cycles run strictly one at a time: Run processes input
// sequentially, so a new submission can never start while a poll wait is
// still in flight.
type Chat struct {
	cfg    config.Config
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	client *webhook.Client
	poller *webhook.Poller
	conv   *conversation.Conversation
	cache  sync.Map
}

// New creates a Chat wired to the configured endpoint pair with a fresh
// conversation.
func New(cfg config.Config, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Chat {
	client := webhook.NewClient(cfg, logger, tracer, meter)
	return &Chat{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
		meter:  meter,
		client: client,
		poller: webhook.NewPoller(client, cfg.PollInterval, cfg.MaxPollRetries),
		conv:   conversation.New(),
	}
}

// Send runs one full cycle for input: append the user message, submit it
// with the prior transcript as context, wait out a deferred job if one was
// issued, and append exactly one assistant message. The assistant text is
// returned for display; failures are rendered into it rather than escaping.
// The only error Send returns is ctx cancellation, after which nothing more
// is appended.
func (c *Chat) Send(ctx context.Context, input string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "chat_exchange")
	defer span.End()

	history := c.conv.Snapshot()
	c.conv.Append(conversation.Message{
		Role:      conversation.RoleUser,
		Content:   input,
		Timestamp: time.Now(),
	})

	cacheKey := cache.Key(c.conv.Snapshot())
	if cached, ok := c.checkCache(cacheKey); ok {
		c.appendAssistant(cached)
		return cached, nil
	}

	reply, err := c.exchange(ctx, input, history)
	if err != nil {
		if ctx.Err() != nil {
			// Session teardown: leave the transcript as it stands.
			return "", ctx.Err()
		}
		reply = failureMessage(err)
		c.logger.Error("exchange failed", "error", err)
		c.recordOutcome(ctx, "failure")
		c.appendAssistant(reply)
		return reply, nil
	}

	c.recordOutcome(ctx, "success")
	c.storeCache(cacheKey, reply)
	c.appendAssistant(reply)
	return reply, nil
}

// exchange resolves input to the final reply text: immediate replies come
// straight back from the submission, deferred ones are awaited by job id.
func (c *Chat) exchange(ctx context.Context, input string, history []conversation.Message) (string, error) {
	result, err := c.client.Submit(ctx, input, history)
	if err != nil {
		return "", err
	}
	if !result.Deferred() {
		return result.Reply, nil
	}
	return c.poller.Await(ctx, result.JobID)
}

func (c *Chat) appendAssistant(content string) {
	c.conv.Append(conversation.Message{
		Role:      conversation.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// failureMessage renders a failed cycle as the assistant message shown to
// the user. Timeouts get their own wording; everything else carries the
// preserved reason and, when one was received, the HTTP status.
func failureMessage(err error) string {
	var werr *webhook.Error
	if errors.As(err, &werr) {
		switch {
		case werr.Kind == webhook.KindTimeout:
			return "Sorry, the request timed out. The server took too long to reply, please try again."
		case werr.Status != 0:
			return fmt.Sprintf("Sorry, the request failed: %s (status %d).", werr.Reason, werr.Status)
		default:
			return fmt.Sprintf("Sorry, the request failed: %s.", werr.Reason)
		}
	}
	return fmt.Sprintf("Sorry, the request failed: %v.", err)
}

// checkCache checks if a reply for this transcript is cached
func (c *Chat) checkCache(cacheKey string) (string, bool) {
	if val, ok := c.cache.Load(cacheKey); ok {
		cached := val.(cache.CachedResponse)
		c.logger.Info("cache hit", "key", cacheKey[:16])
		return cached.Response, true
	}
	return "", false
}

// storeCache stores a successful reply in cache
func (c *Chat) storeCache(cacheKey, response string) {
	c.cache.Store(cacheKey, cache.CachedResponse{
		Response:  response,
		Timestamp: time.Now(),
	})
	c.logger.Info("cached response", "key", cacheKey[:16])
}

// recordOutcome counts finished cycles by how they ended.
func (c *Chat) recordOutcome(ctx context.Context, outcome string) {
	counter, err := c.meter.Int64Counter(
		fmt.Sprintf("chat.exchange.%s", outcome),
		metric.WithDescription(fmt.Sprintf("Chat exchanges that ended in %s", outcome)),
	)
	if err != nil {
		c.logger.Warn("failed to create counter", "outcome", outcome, "error", err)
		return
	}
	counter.Add(ctx, 1)
}

// handleCommand handles special commands
func (c *Chat) handleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true

	case "/new":
		c.conv = conversation.New()
		fmt.Println("Started new conversation:", c.conv.ID)
		return false

	case "/history":
		msgs := c.conv.Snapshot()
		if len(msgs) == 0 {
			fmt.Println("No messages yet.")
			return false
		}
		fmt.Println()
		for _, msg := range msgs {
			fmt.Printf("%s: %s\n", displayRole(msg.Role), msg.Content)
		}
		fmt.Println()
		return false

	case "/help":
		fmt.Println("Available commands:")
		fmt.Println("  /quit, /exit  - Exit the chat")
		fmt.Println("  /new          - Start a new conversation")
		fmt.Println("  /history      - Show the conversation transcript")
		fmt.Println("  /help         - Show this help message")
		return false

	default:
		return false
	}
}

func displayRole(role string) string {
	if role == conversation.RoleUser {
		return "You"
	}
	return "Bot"
}

// Run starts the interactive chat loop
func (c *Chat) Run(ctx context.Context) error {
	fmt.Println("=== HookChat ===")
	fmt.Printf("Conversation: %s\n", c.conv.ID)
	fmt.Printf("Endpoint: %s\n", c.cfg.WebhookURL)
	fmt.Println("Type /help for commands, /quit to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if c.handleCommand(input) {
				break
			}
			continue
		}

		reply, err := c.Send(ctx, input)
		if err != nil {
			// Only cancellation lands here; the session is over.
			c.logger.Info("session cancelled", "error", err)
			break
		}

		fmt.Printf("Bot: %s\n\n", reply)
	}

	fmt.Println("Goodbye!")
	return scanner.Err()
}
