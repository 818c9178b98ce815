package store

import (
	"fmt"
	"strconv"
)

// openRouterURL is the OpenAI-compatible aggregator most seed endpoints go
// through; one key covers many models.
const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

var seedEndpoints = []Endpoint{
	{Name: "Llama 3.2 3B", APIURL: openRouterURL, APIID: "meta-llama/llama-3.2-3b-instruct", Active: true},
	{Name: "Gemma 2 9B", APIURL: openRouterURL, APIID: "google/gemma-2-9b-it", Active: true},
	{Name: "Mistral 7B", APIURL: openRouterURL, APIID: "mistralai/mistral-7b-instruct", Active: true},
	{Name: "Qwen 2.5 72B", APIURL: openRouterURL, APIID: "qwen/qwen-2.5-72b-instruct", Active: true},
	{Name: "DeepSeek R1", APIURL: openRouterURL, APIID: "deepseek/deepseek-r1", Active: true},
	{Name: "GPT-4o (OpenRouter)", APIURL: openRouterURL, APIID: "openai/gpt-4o", Active: true},
	{Name: "GPT-4o-mini (OpenRouter)", APIURL: openRouterURL, APIID: "openai/gpt-4o-mini", Active: true},
	{Name: "Claude 3.5 Sonnet (OpenRouter)", APIURL: openRouterURL, APIID: "anthropic/claude-3.5-sonnet", Active: true},
	{Name: "Gemini Pro 1.5 (OpenRouter)", APIURL: openRouterURL, APIID: "google/gemini-pro-1.5", Active: true},
	{Name: "DeepSeek V3 (OpenRouter)", APIURL: openRouterURL, APIID: "deepseek/deepseek-chat", Active: true},
	// Direct APIs: need their own keys, so seeded inactive
	{Name: "GPT-4o (Direct)", APIURL: "https://api.openai.com/v1/chat/completions", APIID: "gpt-4o", Active: false},
	{Name: "DeepSeek V3 (Direct)", APIURL: "https://api.deepseek.com/v1/chat/completions", APIID: "deepseek-chat", Active: false},
	{Name: "Claude 3.5 Sonnet (Direct)", APIURL: "https://api.anthropic.com/v1/messages", APIID: "claude-3-5-sonnet-20241022", Active: false},
}

// Seed inserts the default endpoints and settings, skipping anything that
// already exists. Safe to call on every startup.
func (s *Store) Seed() error {
	for _, e := range seedEndpoints {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO endpoints (name, api_url, api_id, active) VALUES (?, ?, ?, ?)`,
			e.Name, e.APIURL, e.APIID, boolToInt(e.Active),
		)
		if err != nil {
			return fmt.Errorf("seed endpoint %s: %w", e.Name, err)
		}
	}

	def := DefaultSettings()
	defaults := map[string]string{
		"theme":           def.Theme,
		"default_author":  def.DefaultAuthor,
		"request_timeout": strconv.Itoa(def.RequestTimeout),
	}
	for key, value := range defaults {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	s.logger.Debug("seed complete", "endpoints", len(seedEndpoints))
	return nil
}
