package main

import (
	"path/filepath"

	"github.com/stellarlinkco/lingbench/internal/config"
	"github.com/stellarlinkco/lingbench/internal/embedding"
)

const masterCorpusName = "questions_en_uk.jsonl"

func masterCorpusPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.DataDir, masterCorpusName)
}

// newMeasure builds the similarity measure used by the scorer and the
// translation gate. Embeddings go through the OpenAI-compatible endpoint of
// the ollama provider entry when present, otherwise the local default.
func newMeasure(cfg *config.Config) *embedding.CosineMeasure {
	var apiKey, baseURL string
	if cfg != nil {
		if pc, ok := cfg.LLM.Providers["ollama"]; ok {
			apiKey = pc.APIKey
			baseURL = pc.BaseURL
		}
	}
	model := ""
	if cfg != nil {
		model = cfg.LLM.EmbeddingModel
	}
	return embedding.NewCosineMeasure(embedding.NewOpenAIEmbedder(apiKey, baseURL, model))
}
