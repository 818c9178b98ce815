package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(timeout time.Duration) *Client {
	c := NewClient(timeout, nil)
	c.SetAPIKey("test-key")
	return c
}

func TestSendSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}

		var body openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "test-model" {
			t.Errorf("expected model test-model, got %s", body.Model)
		}
		if len(body.Messages) != 1 || body.Messages[0].Content != "ping" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}],"usage":{"completion_tokens":2}}`))
	}))
	defer server.Close()

	c := testClient(5 * time.Second)
	out := c.Send(context.Background(), Endpoint{ID: "1", Name: "mock", URL: server.URL, ModelID: "test-model"}, "ping")

	if !out.Success {
		t.Fatalf("expected success, got %q", out.Err)
	}
	if out.Content != "pong" {
		t.Errorf("expected pong, got %q", out.Content)
	}
	if out.TokensUsed != 2 {
		t.Errorf("expected 2 tokens, got %d", out.TokensUsed)
	}
}

func TestSendAnthropicHeaders(t *testing.T) {
	var gotKey, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}],"usage":{"output_tokens":1}}`))
	}))
	defer server.Close()

	c := NewClient(5*time.Second, nil)
	// Resolver-supplied key for a mock "anthropic" endpoint
	c.SetCredentialResolver(func(p Provider) string {
		if p == ProviderCustom {
			return "resolver-key"
		}
		return ""
	})

	out := c.Send(context.Background(), Endpoint{ID: "a", URL: server.URL, ModelID: "m"}, "hi")
	if !out.Success {
		t.Fatalf("expected success, got %q", out.Err)
	}
	// The httptest URL classifies as custom, so bearer auth applies
	if gotKey != "" || gotVersion != "" {
		t.Errorf("custom endpoint must not send anthropic headers, got key=%q version=%q", gotKey, gotVersion)
	}
}

func TestSendNoCredential(t *testing.T) {
	c := NewClient(time.Second, nil)
	c.SetCredentialResolver(func(Provider) string { return "" })

	out := c.Send(context.Background(), Endpoint{ID: "1", URL: "https://api.openai.com/v1/chat/completions", ModelID: "gpt-4o"}, "hi")
	if out.Success {
		t.Fatal("expected failure without credential")
	}
	if !strings.Contains(out.Err, "no credential for provider openai") {
		t.Errorf("unexpected error message: %q", out.Err)
	}
}

func TestSendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer server.Close()

	c := testClient(5 * time.Second)
	out := c.Send(context.Background(), Endpoint{ID: "1", URL: server.URL, ModelID: "m"}, "hi")

	if out.Success {
		t.Fatal("expected failure on HTTP 500")
	}
	if !strings.HasPrefix(out.Err, "HTTP 500: ") {
		t.Errorf("expected HTTP 500 prefix, got %q", out.Err)
	}
	if !strings.Contains(out.Err, "boom") {
		t.Errorf("expected error body in message, got %q", out.Err)
	}
}

func TestSendHTTPErrorBodyTruncated(t *testing.T) {
	long := strings.Repeat("x", 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(long))
	}))
	defer server.Close()

	c := testClient(5 * time.Second)
	out := c.Send(context.Background(), Endpoint{ID: "1", URL: server.URL, ModelID: "m"}, "hi")

	if len(out.Err) > len("HTTP 400: ")+200 {
		t.Errorf("error body not truncated to 200 chars: %d chars", len(out.Err))
	}
}

func TestSendNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing is listening anymore

	c := testClient(2 * time.Second)
	out := c.Send(context.Background(), Endpoint{ID: "1", URL: url, ModelID: "m"}, "hi")

	if out.Success {
		t.Fatal("expected failure for unreachable host")
	}
	if !strings.HasPrefix(out.Err, "network error: ") {
		t.Errorf("expected network error, got %q", out.Err)
	}
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	c := testClient(100 * time.Millisecond)

	start := time.Now()
	out := c.Send(context.Background(), Endpoint{ID: "1", URL: server.URL, ModelID: "m"}, "hi")
	elapsed := time.Since(start)

	if out.Success {
		t.Fatal("expected timeout failure")
	}
	if out.Err != "request timed out" {
		t.Errorf("expected timeout message, got %q", out.Err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout not enforced: took %v", elapsed)
	}
}

func TestSendMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := testClient(5 * time.Second)
	out := c.Send(context.Background(), Endpoint{ID: "1", URL: server.URL, ModelID: "m"}, "hi")

	if out.Success {
		t.Fatal("expected parse failure")
	}
	if !strings.Contains(out.Err, "response parse error") {
		t.Errorf("expected parse error, got %q", out.Err)
	}
}

func TestSendContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	c := testClient(10 * time.Second)
	out := c.Send(ctx, Endpoint{ID: "1", URL: server.URL, ModelID: "m"}, "hi")

	if out.Success {
		t.Fatal("expected failure on cancelled context")
	}
	if out.Err == "" {
		t.Error("expected a populated error message")
	}
}
