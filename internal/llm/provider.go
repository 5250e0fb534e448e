package llm

import "context"

// Provider sends a single-turn prompt to a model endpoint.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion request. Model overrides the provider's
// configured default; the experiment runner sweeps a list of models through
// one provider this way.
type Request struct {
	Model       string
	Messages    []Message
	System      string
	MaxTokens   int
	Temperature float64
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type Response struct {
	Text       string
	Usage      Usage
	StopReason string
	LatencyMs  int64
}
