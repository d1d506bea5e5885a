package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"hookchat/internal/config"
	"hookchat/internal/conversation"
)

// FallbackReply stands in for a structured final response whose content
// field is missing or empty. An empty final result is still a result, not
// a failure.
const FallbackReply = "Sorry, I received an empty response."

// Client submits chat messages to the webhook endpoint and queries the
// status endpoint for deferred results. It never touches the transcript;
// the caller appends whatever comes back.
type Client struct {
	webhookURL string
	statusURL  string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

// NewClient creates a webhook client for the configured endpoint pair.
func NewClient(cfg config.Config, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		statusURL:  cfg.StatusURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// SubmitResult is the successful outcome of a submission: either the
// complete reply, or the job id of a deferred one. Exactly one is set.
type SubmitResult struct {
	Reply string
	JobID string
}

// Deferred reports whether the reply must be collected from the status
// endpoint.
func (r SubmitResult) Deferred() bool { return r.JobID != "" }

// PollResult is one status-endpoint answer: still pending, or the reply.
type PollResult struct {
	Pending bool
	Reply   string
}

// Submit POSTs text plus the prior transcript to the submission endpoint
// and interprets the answer. A plain-text body is the immediate reply; a
// structured body must carry a job id, otherwise the submission failed.
func (c *Client) Submit(ctx context.Context, text string, history []conversation.Message) (SubmitResult, error) {
	ctx, span := c.tracer.Start(ctx, "webhook_submit")
	defer span.End()

	start := time.Now()
	requestID := uuid.NewString()

	reqBody := submitRequest{
		Message:             text,
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
		ConversationHistory: historyFromMessages(history),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, connectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SubmitResult{}, connectionError(err)
	}

	c.recordDuration(ctx, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("submission rejected", "request_id", requestID, "status", resp.StatusCode)
		return SubmitResult{}, classifyStatus(resp.StatusCode)
	}

	pl, err := decodePayload(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return SubmitResult{}, err
	}

	if !pl.structured {
		c.logger.Info("received immediate reply", "request_id", requestID, "bytes", len(pl.text))
		return SubmitResult{Reply: pl.text}, nil
	}

	if pl.env.JobID == "" {
		return SubmitResult{}, &Error{Kind: KindNoJobID, Reason: "response carried no job id"}
	}

	c.logger.Info("submission deferred", "request_id", requestID, "job_id", pl.env.JobID)
	return SubmitResult{JobID: pl.env.JobID}, nil
}

// Poll issues one status query for jobID. Pending means the server answered
// 202 and the job is still processing; any other success status is final.
func (c *Client) Poll(ctx context.Context, jobID string) (PollResult, error) {
	ctx, span := c.tracer.Start(ctx, "webhook_status_poll")
	defer span.End()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL+"/"+url.PathEscape(jobID), nil)
	if err != nil {
		return PollResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PollResult{}, connectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PollResult{}, connectionError(err)
	}

	c.recordDuration(ctx, time.Since(start))

	if resp.StatusCode == http.StatusAccepted {
		return PollResult{Pending: true}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("status query rejected", "job_id", jobID, "status", resp.StatusCode)
		return PollResult{}, classifyStatus(resp.StatusCode)
	}

	pl, err := decodePayload(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return PollResult{}, err
	}

	if !pl.structured {
		return PollResult{Reply: pl.text}, nil
	}

	if pl.env.Response == nil || pl.env.Response.Content == "" {
		c.logger.Warn("final response missing content", "job_id", jobID)
		return PollResult{Reply: FallbackReply}, nil
	}

	return PollResult{Reply: pl.env.Response.Content}, nil
}

// recordDuration records the request duration histogram the same way every
// call site does.
func (c *Client) recordDuration(ctx context.Context, d time.Duration) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(d.Milliseconds()))
	}
}
