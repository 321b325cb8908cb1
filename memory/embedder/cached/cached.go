// Package cached decorates an Embedder with a ristretto cache keyed by
// input text. Every saved exchange is embedded once for the index and
// its question text is often embedded again moments later as a
// similarity query; for the ONNX embedder each of those is a full model
// inference, so the cache pays for itself immediately.
package cached

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	log "github.com/sirupsen/logrus"

	"github.com/substratehq/substrate/memory"
)

// Embedder wraps an inner embedder with an in-process cache.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

// New creates a caching decorator around inner. maxBytes bounds the
// total cached embedding payload; 0 uses a 16 MiB default.
func New(inner memory.Embedder, maxBytes int64) (*Embedder, error) {
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns a cached embedding when the exact text has been embedded
// before, otherwise delegates to the inner embedder and caches the
// result. Cache admission is best-effort; a rejected entry just means a
// recomputation later.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		if emb, ok := v.([]float32); ok {
			log.Debugf("[EMBED] Cache hit (%d chars)", len(text))
			return emb, nil
		}
	}

	emb, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(text, emb, int64(len(emb)*4))
	return emb, nil
}

// Dimensions returns the inner embedder's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Wait blocks until pending cache writes are applied. Tests use it to
// make hits deterministic.
func (e *Embedder) Wait() {
	e.cache.Wait()
}
