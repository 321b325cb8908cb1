// Package mock provides a deterministic embedder for tests and for
// builds without the onnx tag. It hashes the input text and expands the
// hash into a unit vector, so identical texts always embed identically.
// It does not produce real semantic similarity.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder is a hash-seeded deterministic embedder.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder. Dimensions match all-MiniLM-L6-v2 so it
// is a drop-in stand-in for the ONNX embedder.
func New() *Embedder {
	return &Embedder{dimensions: 384}
}

// Embed creates a deterministic embedding from text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))

	// Expand the hash with an LCG into a pseudo-random vector.
	seed := h.Sum64()
	embedding := make([]float32, e.dimensions)
	for i := range embedding {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// normalize converts an embedding to a unit vector.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
