package embedding

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultLocalBaseURL = "http://localhost:11434/v1"

// OpenAIEmbedder fetches embeddings from an OpenAI-compatible endpoint.
// With the default base URL it talks to a local Ollama server.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder for the given endpoint and model.
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		// Local servers ignore the key but the client requires one.
		key = "local"
	}
	cfg := openai.DefaultConfig(key)
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	} else {
		cfg.BaseURL = defaultLocalBaseURL
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = "all-minilm"
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}
}

// Embed returns the embedding vector for text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("embedding: nil client")
	}
	if ctx == nil {
		return nil, errors.New("embedding: nil context")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding: empty response")
	}

	raw := resp.Data[0].Embedding
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}
