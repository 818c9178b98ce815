package llm

import (
	"encoding/json"
	"fmt"
)

// anthropicVersion is the date-versioned API revision Anthropic requires on
// every request.
const anthropicVersion = "2023-06-01"

// DefaultMaxTokens is the completion budget sent when the caller does not
// override it.
const DefaultMaxTokens = 4096

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
	Stream    bool          `json:"stream,omitempty"`
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// headersFor builds the auth and content-type headers for a provider.
// The key may be empty; rejecting keyless calls is the invoker's job.
func headersFor(p Provider, apiKey string) map[string]string {
	if p.anthropicShaped() {
		return map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         apiKey,
			"anthropic-version": anthropicVersion,
		}
	}
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + apiKey,
	}
}

// buildBody marshals the provider-specific request payload. The prompt is
// always sent as a single user message.
func buildBody(p Provider, modelID, prompt string, maxTokens int, stream bool) ([]byte, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	msgs := []chatMessage{{Role: "user", Content: prompt}}

	if p.anthropicShaped() {
		return json.Marshal(anthropicRequest{
			Model:     modelID,
			MaxTokens: maxTokens,
			Messages:  msgs,
			Stream:    stream,
		})
	}
	return json.Marshal(openAIRequest{
		Model:     modelID,
		Messages:  msgs,
		MaxTokens: maxTokens,
		Stream:    stream,
	})
}

// parseBody converts a 2xx response body into an Outcome. Structural
// mismatches (bad JSON, empty choices/content arrays) become failure
// Outcomes, never errors.
func parseBody(p Provider, raw []byte) Outcome {
	if p.anthropicShaped() {
		var resp anthropicResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return Outcome{Err: fmt.Sprintf("response parse error: %v", err)}
		}
		if len(resp.Content) == 0 {
			return Outcome{Err: "response parse error: empty content array"}
		}
		return Outcome{
			Success:    true,
			Content:    resp.Content[0].Text,
			TokensUsed: resp.Usage.OutputTokens,
		}
	}

	var resp openAIResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Outcome{Err: fmt.Sprintf("response parse error: %v", err)}
	}
	if len(resp.Choices) == 0 {
		return Outcome{Err: "response parse error: empty choices array"}
	}
	return Outcome{
		Success:    true,
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.CompletionTokens,
	}
}
