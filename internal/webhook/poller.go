package webhook

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Poller drives a deferred job to completion by querying the status
// endpoint until the result is ready, a hard error occurs, or the attempt
// ceiling is reached.
type Poller struct {
	client     *Client
	interval   time.Duration
	maxRetries int
}

// NewPoller creates a poller that retries every interval, at most
// maxRetries times after the initial attempt.
func NewPoller(client *Client, interval time.Duration, maxRetries int) *Poller {
	return &Poller{client: client, interval: interval, maxRetries: maxRetries}
}

// Await blocks until jobID resolves and returns the reply text. While the
// server keeps answering "still processing" it retries on the fixed
// interval; exceeding the ceiling fails with KindTimeout. Hard errors
// (non-2xx, connection, parse) are never retried. Cancelling ctx stops the
// loop during the wait, before any further request is issued.
func (p *Poller) Await(ctx context.Context, jobID string) (string, error) {
	attempts := 0
	for {
		res, err := p.client.Poll(ctx, jobID)
		attempts++
		p.recordAttempt(ctx)
		if err != nil {
			return "", err
		}
		if !res.Pending {
			p.client.logger.Info("job resolved", "job_id", jobID, "attempts", attempts)
			return res.Reply, nil
		}
		if attempts > p.maxRetries {
			p.client.logger.Warn("job timed out", "job_id", jobID, "attempts", attempts)
			return "", &Error{Kind: KindTimeout, Reason: "timed out waiting for the reply"}
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poller) recordAttempt(ctx context.Context) {
	counter, err := p.client.meter.Int64Counter(
		"webhook.poll.attempts",
		metric.WithDescription("Status endpoint queries issued for deferred jobs"),
	)
	if err == nil {
		counter.Add(ctx, 1)
	}
}
