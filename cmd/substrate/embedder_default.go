//go:build !onnx

package main

import (
	"github.com/substratehq/substrate/memory"
	"github.com/substratehq/substrate/memory/embedder/mock"
)

// newEmbedder returns the hash-based embedder. Build with -tags onnx
// for real semantic similarity via all-MiniLM-L6-v2.
func newEmbedder() (memory.Embedder, error) {
	return mock.New(), nil
}
