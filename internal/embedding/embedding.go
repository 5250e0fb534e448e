// Package embedding provides the semantic-similarity measure used by the
// scoring protocol and the translation fidelity gate. The embedding model is
// loaded behind an endpoint once at process start; every comparison reuses
// the same client.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Embedder turns a text into a vector. Any implementation with this contract
// is substitutable; tests use a deterministic stub.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Measure computes a similarity value in [0,1] between two texts.
type Measure interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// CosineMeasure implements Measure over an Embedder using cosine similarity.
type CosineMeasure struct {
	Embedder Embedder
}

// NewCosineMeasure wraps an embedder as a Measure.
func NewCosineMeasure(e Embedder) *CosineMeasure {
	return &CosineMeasure{Embedder: e}
}

// Similarity embeds both texts and returns their cosine similarity clamped
// to [0,1].
func (m *CosineMeasure) Similarity(ctx context.Context, a, b string) (float64, error) {
	if m == nil || m.Embedder == nil {
		return 0, errors.New("embedding: nil embedder")
	}

	va, err := m.Embedder.Embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("embedding: embed reference: %w", err)
	}
	vb, err := m.Embedder.Embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("embedding: embed candidate: %w", err)
	}

	sim := Cosine(va, vb)
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}

// Cosine returns the cosine similarity of two vectors, or 0 when either is
// empty, mismatched in length, or zero-magnitude.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
