package llm

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// SendToAll fans one prompt out to every endpoint concurrently and joins
// all results. The returned map is keyed by Endpoint.ID and always has
// exactly one entry per input endpoint; failures surface as failure
// Outcomes, never as missing keys. One endpoint timing out or erroring
// does not cancel or delay its siblings.
func (c *Client) SendToAll(ctx context.Context, endpoints []Endpoint, prompt string) map[string]Outcome {
	results := make(map[string]Outcome, len(endpoints))
	if len(endpoints) == 0 {
		return results
	}

	start := time.Now()

	// Store at a pre-allocated index per goroutine — no mutex needed.
	outcomes := make([]Outcome, len(endpoints))

	var g errgroup.Group
	for i, ep := range endpoints {
		g.Go(func() error {
			outcomes[i] = c.Send(ctx, ep, prompt)
			return nil // failures are captured in the outcome, never propagated
		})
	}
	_ = g.Wait() // errgroup never sees non-nil errors from goroutines above

	ok := 0
	for i, ep := range endpoints {
		results[ep.ID] = outcomes[i]
		if outcomes[i].Success {
			ok++
		}
	}

	c.logger.Info("fan-out complete",
		"endpoints", len(endpoints),
		"succeeded", ok,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results
}
