package llm

import (
	"os"
	"strings"
)

// Provider identifies the API vendor behind an endpoint URL. The vendor
// determines the request/response wire shape and which credential to use.
type Provider int

const (
	// ProviderOpenAI is api.openai.com.
	ProviderOpenAI Provider = iota
	// ProviderAnthropic is api.anthropic.com (messages API).
	ProviderAnthropic
	// ProviderDeepSeek is api.deepseek.com (OpenAI-compatible).
	ProviderDeepSeek
	// ProviderGroq is api.groq.com (OpenAI-compatible).
	ProviderGroq
	// ProviderCustom is any unrecognized endpoint. Custom endpoints are
	// assumed to speak the OpenAI chat-completions schema, which covers
	// OpenRouter, Together, Ollama and most other vendors.
	ProviderCustom
)

func (p Provider) String() string {
	switch p {
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderDeepSeek:
		return "deepseek"
	case ProviderGroq:
		return "groq"
	default:
		return "custom"
	}
}

// Detect classifies an endpoint URL by vendor. It is total: any URL that
// matches no known vendor maps to ProviderCustom.
func Detect(apiURL string) Provider {
	u := strings.ToLower(apiURL)
	switch {
	case strings.Contains(u, "openai.com"):
		return ProviderOpenAI
	case strings.Contains(u, "anthropic.com"):
		return ProviderAnthropic
	case strings.Contains(u, "deepseek.com"):
		return ProviderDeepSeek
	case strings.Contains(u, "groq.com"):
		return ProviderGroq
	default:
		return ProviderCustom
	}
}

// anthropicShaped reports whether the provider uses Anthropic's messages
// schema. Everything else uses the OpenAI chat-completions schema.
func (p Provider) anthropicShaped() bool { return p == ProviderAnthropic }

// envVar returns the environment variable holding the provider's API key.
// Custom endpoints have no well-known variable; their key must come from
// config or a client override.
func (p Provider) envVar() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	case ProviderGroq:
		return "GROQ_API_KEY"
	default:
		return ""
	}
}

// CredentialResolver returns the API key for a provider, or "" when none
// is available.
type CredentialResolver func(Provider) string

// EnvCredentials resolves API keys from the conventional environment
// variables (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...).
func EnvCredentials(p Provider) string {
	v := p.envVar()
	if v == "" {
		return ""
	}
	return os.Getenv(v)
}
