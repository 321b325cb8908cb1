//go:build onnx

package main

import (
	"os"

	"github.com/substratehq/substrate/memory"
	"github.com/substratehq/substrate/memory/embedder/onnx"
)

// newEmbedder returns the ONNX all-MiniLM-L6-v2 embedder. Model and
// tokenizer paths come from the environment so the binary stays
// relocatable.
func newEmbedder() (memory.Embedder, error) {
	modelPath := os.Getenv("SUBSTRATE_ONNX_MODEL")
	if modelPath == "" {
		modelPath = "models/all-MiniLM-L6-v2/model.onnx"
	}
	tokenizerPath := os.Getenv("SUBSTRATE_ONNX_TOKENIZER")
	if tokenizerPath == "" {
		tokenizerPath = "models/all-MiniLM-L6-v2/tokenizer.json"
	}

	return onnx.New(onnx.Config{
		ModelPath:     modelPath,
		TokenizerPath: tokenizerPath,
	})
}
