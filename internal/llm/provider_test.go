package llm

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		url  string
		want Provider
	}{
		{"https://api.openai.com/v1/chat/completions", ProviderOpenAI},
		{"https://API.OPENAI.COM/v1/chat/completions", ProviderOpenAI},
		{"https://api.anthropic.com/v1/messages", ProviderAnthropic},
		{"https://api.deepseek.com/v1/chat/completions", ProviderDeepSeek},
		{"https://api.groq.com/openai/v1/chat/completions", ProviderGroq},
		{"https://openrouter.ai/api/v1/chat/completions", ProviderCustom},
		{"http://localhost:11434/v1/chat/completions", ProviderCustom},
		{"", ProviderCustom},
	}

	for _, tc := range cases {
		if got := Detect(tc.url); got != tc.want {
			t.Errorf("Detect(%q) = %s, want %s", tc.url, got, tc.want)
		}
	}
}

func TestProviderString(t *testing.T) {
	cases := map[Provider]string{
		ProviderOpenAI:    "openai",
		ProviderAnthropic: "anthropic",
		ProviderDeepSeek:  "deepseek",
		ProviderGroq:      "groq",
		ProviderCustom:    "custom",
	}
	for p, want := range cases {
		if p.String() != want {
			t.Errorf("Provider(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	if got := EnvCredentials(ProviderOpenAI); got != "sk-test" {
		t.Errorf("expected sk-test, got %q", got)
	}

	// Custom has no well-known env var
	if got := EnvCredentials(ProviderCustom); got != "" {
		t.Errorf("expected empty key for custom, got %q", got)
	}
}

func TestAnthropicShaped(t *testing.T) {
	if !ProviderAnthropic.anthropicShaped() {
		t.Error("anthropic should use the anthropic shape")
	}
	for _, p := range []Provider{ProviderOpenAI, ProviderDeepSeek, ProviderGroq, ProviderCustom} {
		if p.anthropicShaped() {
			t.Errorf("%s should use the OpenAI-compatible shape", p)
		}
	}
}
