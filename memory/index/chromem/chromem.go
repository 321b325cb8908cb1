// Package chromem implements the semantic index on chromem-go, a pure
// Go embedded vector database. Embeddings are supplied by the caller;
// the collection's own embedding function is never invoked.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	chromem "github.com/philippgille/chromem-go"
	log "github.com/sirupsen/logrus"

	"github.com/substratehq/substrate/memory"
)

// collectionName is the single collection holding all insights across
// every session.
const collectionName = "substrate_insights"

// ErrClosed is returned by operations on a closed index. chromem-go has
// no handle to invalidate, so the wrapper enforces close-once semantics
// itself.
var ErrClosed = errors.New("chromem: index is closed")

// Index is a chromem-backed semantic index.
type Index struct {
	db     *chromem.DB
	col    *chromem.Collection
	closed atomic.Bool
}

// NewPersistent opens (creating if necessary) an index persisted under
// dir. Insights written in prior process lifetimes are visible.
func NewPersistent(dir string) (*Index, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open persistent chromem db: %w", err)
	}
	return newIndex(db, dir)
}

// NewInMemory creates a volatile index. Used by tests and anywhere
// persistence is not wanted.
func NewInMemory() (*Index, error) {
	return newIndex(chromem.NewDB(), "")
}

func newIndex(db *chromem.DB, dir string) (*Index, error) {
	// No embedding func: documents always arrive with embeddings attached
	// and queries always go through QueryEmbedding.
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection: %w", err)
	}

	if dir != "" {
		log.Debugf("[CHROMEM] Opened semantic index at %s (%d insight(s))", dir, col.Count())
	}
	return &Index{db: db, col: col}, nil
}

// Upsert implements memory.Index.
func (i *Index) Upsert(ctx context.Context, insight memory.Insight, embedding []float32) error {
	if i.closed.Load() {
		return ErrClosed
	}

	doc := chromem.Document{
		ID:        insight.ID,
		Content:   insight.Document,
		Embedding: embedding,
		Metadata: map[string]string{
			"session_id": insight.SessionID,
			"timestamp":  insight.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}
	if err := i.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query implements memory.Index. chromem requires nResults to not
// exceed the collection size, so the limit is clamped; an empty
// collection returns nil without ranking.
func (i *Index) Query(ctx context.Context, embedding []float32, limit int) ([]memory.Insight, error) {
	if i.closed.Load() {
		return nil, ErrClosed
	}

	total := i.col.Count()
	if total == 0 {
		return nil, nil
	}
	if limit > total {
		limit = total
	}

	results, err := i.col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	insights := make([]memory.Insight, 0, len(results))
	for _, res := range results {
		ts, _ := time.Parse(time.RFC3339Nano, res.Metadata["timestamp"])
		insights = append(insights, memory.Insight{
			ID:        res.ID,
			Document:  res.Content,
			SessionID: res.Metadata["session_id"],
			Timestamp: ts,
		})
	}
	log.Debugf("[CHROMEM] Query returned %d result(s)", len(insights))
	return insights, nil
}

// Count implements memory.Index. chromem keeps the count natively.
func (i *Index) Count() int {
	if i.closed.Load() {
		return 0
	}
	return i.col.Count()
}

// Close implements memory.Index. chromem writes through to disk on every
// add, so close only has to fence off further use.
func (i *Index) Close() error {
	if !i.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}
