package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single endpoint invocation when the caller does
// not override it.
const DefaultTimeout = 30 * time.Second

// Client invokes LLM endpoints. Send never returns an error: every failure
// mode is converted into a failure Outcome so that one endpoint can never
// take down a fan-out batch.
type Client struct {
	timeout   time.Duration
	maxTokens int
	apiKey    string // call-scoped override; wins over the resolver
	resolver  CredentialResolver
	logger    *slog.Logger
}

// NewClient creates a client with the given per-invocation timeout. A zero
// or negative timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		timeout:   timeout,
		maxTokens: DefaultMaxTokens,
		resolver:  EnvCredentials,
		logger:    logger.With("component", "llm-client"),
	}
}

// SetAPIKey sets an override key used for every provider, bypassing the
// credential resolver.
func (c *Client) SetAPIKey(key string) { c.apiKey = key }

// SetMaxTokens overrides the completion budget sent with each request.
func (c *Client) SetMaxTokens(n int) {
	if n > 0 {
		c.maxTokens = n
	}
}

// SetCredentialResolver replaces the default environment-based key lookup.
func (c *Client) SetCredentialResolver(r CredentialResolver) {
	if r != nil {
		c.resolver = r
	}
}

// credential returns the key for a provider: the client override if set,
// otherwise whatever the resolver yields.
func (c *Client) credential(p Provider) string {
	if c.apiKey != "" {
		return c.apiKey
	}
	return c.resolver(p)
}

// Send issues one POST to the endpoint and normalizes every failure mode
// into the returned Outcome. It never returns an error and never panics
// past its own frame.
func (c *Client) Send(ctx context.Context, ep Endpoint, prompt string) Outcome {
	provider := Detect(ep.URL)

	apiKey := c.credential(provider)
	if apiKey == "" {
		return Outcome{Err: fmt.Sprintf("no credential for provider %s", provider)}
	}

	body, err := buildBody(provider, ep.ModelID, prompt, c.maxTokens, false)
	if err != nil {
		return Outcome{Err: fmt.Sprintf("unexpected error: %v", err)}
	}

	raw, outcome := c.post(ctx, ep.URL, provider, apiKey, body)
	if outcome != nil {
		return *outcome
	}

	result := parseBody(provider, raw)
	c.logger.Debug("endpoint invoked",
		"endpoint", ep.Name,
		"provider", provider.String(),
		"success", result.Success,
		"tokens", result.TokensUsed,
	)
	return result
}

// post performs the bounded HTTP exchange. On failure it returns a non-nil
// Outcome describing the error; on HTTP 200 it returns the raw body.
//
// Each call gets its own http.Client so no connection outlives or is
// shared across invocations.
func (c *Client) post(ctx context.Context, url string, p Provider, apiKey string, body []byte) ([]byte, *Outcome) {
	httpClient := &http.Client{Timeout: c.timeout}
	defer httpClient.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Outcome{Err: fmt.Sprintf("unexpected error: %v", err)}
	}
	for k, v := range headersFor(p, apiKey) {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &Outcome{Err: classifyTransportError(err)}
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Outcome{Err: classifyTransportError(err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Outcome{Err: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200))}
	}
	return raw, nil
}

// classifyTransportError maps a transport failure onto the error taxonomy:
// timeouts get a fixed message, everything else is a network error.
func classifyTransportError(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "request timed out"
	}
	return fmt.Sprintf("network error: %v", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
