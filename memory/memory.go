package memory

import (
	"context"
	"time"

	"github.com/substratehq/substrate/core"
)

// Turn is one chronological record: a single message within a session.
// Turns are immutable once written and retained indefinitely.
type Turn struct {
	SessionID string
	Timestamp time.Time
	Role      core.Role
	Content   string
}

// Insight is one semantic record: a combined "user question + assistant
// answer" document, queryable across all sessions including ones from
// prior process lifetimes. The embedding itself lives in the Index.
type Insight struct {
	ID        string
	Document  string
	SessionID string
	Timestamp time.Time
}

// Log is the chronological storage backend. Implementations: sqlite
// (durable, CLI default), in-memory fakes (tests).
type Log interface {
	// Append durably writes one turn. A storage fault must surface as an
	// error, never be swallowed.
	Append(ctx context.Context, turn Turn) error

	// Recent returns the last limit turns for the session in chronological
	// (oldest-first) order. Shorter history returns fewer; a brand-new
	// session returns an empty slice. Never includes other sessions.
	Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error)

	// Close releases the underlying handle. Exactly once.
	Close() error
}

// Index is the semantic storage backend. Implementations: chromem
// (embedded vector database), in-memory fakes (tests).
type Index interface {
	// Upsert stores one insight with its embedding.
	Upsert(ctx context.Context, insight Insight, embedding []float32) error

	// Query returns up to limit insights ranked by similarity to the
	// embedding, most-similar first, across all sessions. If the index
	// holds fewer than limit items it returns all of them.
	Query(ctx context.Context, embedding []float32, limit int) ([]Insight, error)

	// Count returns the total number of insights ever stored. Index-native,
	// not a scan.
	Count() int

	// Close releases the underlying handle. Exactly once.
	Close() error
}

// Embedder converts text to vector embeddings.
// Implementations: mock (hash-based, default), onnx (all-MiniLM-L6-v2,
// behind the onnx build tag), cached (ristretto decorator).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
