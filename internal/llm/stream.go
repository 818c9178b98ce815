package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// sseDone is the sentinel the OpenAI-compatible stream sends after the
// last chunk.
const sseDone = "[DONE]"

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type anthropicStreamChunk struct {
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// SendStream issues one streaming POST to the endpoint and calls onChunk
// with each text fragment as it arrives. The final Outcome has the same
// shape as the non-streaming path; on failure mid-stream it carries the
// partial content accumulated so far. Like Send, it never returns an
// error.
func (c *Client) SendStream(ctx context.Context, ep Endpoint, prompt string, onChunk func(string)) Outcome {
	provider := Detect(ep.URL)

	apiKey := c.credential(provider)
	if apiKey == "" {
		return Outcome{Err: fmt.Sprintf("no credential for provider %s", provider)}
	}

	body, err := buildBody(provider, ep.ModelID, prompt, c.maxTokens, true)
	if err != nil {
		return Outcome{Err: fmt.Sprintf("unexpected error: %v", err)}
	}

	httpClient := &http.Client{Timeout: c.timeout}
	defer httpClient.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return Outcome{Err: fmt.Sprintf("unexpected error: %v", err)}
	}
	for k, v := range headersFor(provider, apiKey) {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Outcome{Err: classifyTransportError(err)}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Outcome{Err: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200))}
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == sseDone {
			break
		}

		delta, ok := parseStreamChunk(provider, []byte(data))
		if !ok || delta == "" {
			continue // non-text events (pings, role headers) are skipped
		}
		full.WriteString(delta)
		if onChunk != nil {
			onChunk(delta)
		}
	}

	if err := scanner.Err(); err != nil {
		return Outcome{Content: full.String(), Err: classifyTransportError(err)}
	}

	c.logger.Debug("stream complete", "endpoint", ep.Name, "bytes", full.Len())
	return Outcome{Success: true, Content: full.String()}
}

// parseStreamChunk extracts the text delta from one SSE data payload.
func parseStreamChunk(p Provider, data []byte) (string, bool) {
	if p.anthropicShaped() {
		var chunk anthropicStreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return "", false
		}
		return chunk.Delta.Text, true
	}
	var chunk openAIStreamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	return chunk.Choices[0].Delta.Content, true
}
