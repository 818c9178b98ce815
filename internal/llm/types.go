package llm

// Endpoint describes one callable LLM HTTP API. The ID is caller-assigned
// and keys the fan-out result map; it must be unique within one call.
type Endpoint struct {
	ID      string
	Name    string
	URL     string
	ModelID string
	Active  bool
}

// Outcome is the normalized result of one endpoint invocation. Exactly one
// Outcome is produced per endpoint per fan-out call, success or failure.
type Outcome struct {
	Success    bool
	Content    string
	Err        string
	TokensUsed int
}
