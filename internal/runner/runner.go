// Package runner executes one ChatList run: persist the prompt, fan it out
// to every active endpoint, and save the successful responses.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/chatlist/chatlist/internal/llm"
	"github.com/chatlist/chatlist/internal/store"
)

// Runner ties the endpoint store to the fan-out client.
type Runner struct {
	store  *store.Store
	client *llm.Client
	logger *slog.Logger
}

// New creates a Runner.
func New(st *store.Store, client *llm.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:  st,
		client: client,
		logger: logger.With("component", "runner"),
	}
}

// Item pairs one endpoint with its outcome. ResultID is set only when the
// outcome was successful and therefore persisted.
type Item struct {
	Endpoint store.Endpoint
	Outcome  llm.Outcome
	ResultID int64
}

// Run is the record of one fan-out call.
type Run struct {
	ID       string
	PromptID int64
	Items    []Item
	Elapsed  time.Duration
}

// Run sends promptText to every active endpoint, stores the prompt and all
// successful responses, and returns every outcome (including failures,
// which are not persisted). It returns an error only for local problems —
// no active endpoints, or the database refusing writes — never for remote
// failures.
func (r *Runner) Run(ctx context.Context, promptText, author string) (*Run, error) {
	endpoints, err := r.store.ListEndpoints(true)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no active endpoints configured")
	}

	promptID, err := r.store.CreatePrompt(promptText, author)
	if err != nil {
		return nil, fmt.Errorf("save prompt: %w", err)
	}

	descriptors := make([]llm.Endpoint, len(endpoints))
	for i, e := range endpoints {
		descriptors[i] = e.Descriptor()
	}

	runID := uuid.NewString()
	start := time.Now()
	outcomes := r.client.SendToAll(ctx, descriptors, promptText)
	elapsed := time.Since(start)

	run := &Run{
		ID:       runID,
		PromptID: promptID,
		Items:    make([]Item, 0, len(endpoints)),
		Elapsed:  elapsed,
	}

	for _, e := range endpoints {
		outcome := outcomes[strconv.FormatInt(e.ID, 10)]
		item := Item{Endpoint: e, Outcome: outcome}

		if outcome.Success {
			id, err := r.store.SaveResult(store.Result{
				PromptID:   promptID,
				EndpointID: e.ID,
				RunID:      runID,
				Response:   outcome.Content,
				TokensUsed: outcome.TokensUsed,
			})
			if err != nil {
				return nil, fmt.Errorf("save result for %s: %w", e.Name, err)
			}
			item.ResultID = id
		} else {
			r.logger.Warn("endpoint failed", "endpoint", e.Name, "error", outcome.Err)
		}

		run.Items = append(run.Items, item)
	}

	r.logger.Info("run complete",
		"run_id", runID,
		"prompt_id", promptID,
		"endpoints", len(endpoints),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return run, nil
}
