package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/substratehq/substrate/core"
)

// ErrClosed is returned by every Store operation after Close. A closed
// store fails loudly rather than silently no-oping.
var ErrClosed = errors.New("memory: store is closed")

// Store is the composite dual-memory store the orchestrator talks to.
// It owns the chronological log, the semantic index, and the embedder,
// and is opened once per process lifetime.
type Store struct {
	log      Log
	index    Index
	embedder Embedder
	closed   atomic.Bool
}

// NewStore assembles a Store from its three backends.
func NewStore(chronLog Log, index Index, embedder Embedder) *Store {
	return &Store{
		log:      chronLog,
		index:    index,
		embedder: embedder,
	}
}

// Record appends one immutable turn to the chronological log.
func (s *Store) Record(ctx context.Context, sessionID string, role core.Role, content string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	turn := Turn{
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   content,
	}
	if err := s.log.Append(ctx, turn); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// Save dual-writes one completed exchange: two turns (user then
// assistant) into the chronological log, then one combined insight into
// the semantic index. The two sub-writes are independent; there is no
// two-phase commit. If the log write succeeds and the index write fails
// the error is surfaced and the committed turns stand.
func (s *Store) Save(ctx context.Context, sessionID, userText, assistantText string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	now := time.Now().UTC()

	if err := s.log.Append(ctx, Turn{
		SessionID: sessionID,
		Timestamp: now,
		Role:      core.RoleUser,
		Content:   userText,
	}); err != nil {
		return fmt.Errorf("append user turn: %w", err)
	}
	if err := s.log.Append(ctx, Turn{
		SessionID: sessionID,
		Timestamp: now,
		Role:      core.RoleAssistant,
		Content:   assistantText,
	}); err != nil {
		return fmt.Errorf("append assistant turn: %w", err)
	}

	insight := Insight{
		ID:        uuid.New().String(),
		Document:  fmt.Sprintf("User: %s\nAssistant: %s", userText, assistantText),
		SessionID: sessionID,
		Timestamp: now,
	}

	embedding, err := s.embedder.Embed(ctx, insight.Document)
	if err != nil {
		return fmt.Errorf("embed insight: %w", err)
	}
	if err := s.index.Upsert(ctx, insight, embedding); err != nil {
		return fmt.Errorf("upsert insight: %w", err)
	}

	log.Debugf("[MEMORY] Saved exchange: session=%s insight=%s", shortID(sessionID), insight.ID)
	return nil
}

// Recent returns the last limit turns for the session, oldest first.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	turns, err := s.log.Recent(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent turns: %w", err)
	}
	return turns, nil
}

// Similar returns up to limit insight documents ranked by similarity to
// the query, across all sessions, most-similar first. Cold-start safe:
// an empty index returns nil without invoking the embedder or the
// similarity computation, and an index holding fewer than limit items
// returns everything it has.
func (s *Store) Similar(ctx context.Context, query string, limit int) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	total := s.index.Count()
	if total == 0 {
		log.Debugf("[MEMORY] Similar: index is empty, skipping ranking")
		return nil, nil
	}
	if limit > total {
		limit = total
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	insights, err := s.index.Query(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	docs := make([]string, 0, len(insights))
	for _, ins := range insights {
		docs = append(docs, ins.Document)
	}
	log.Debugf("[MEMORY] Similar: retrieved %d insight(s) for query %q", len(docs), truncateLog(query, 50))
	return docs, nil
}

// TotalInsights returns the count of all insights ever stored. Display
// only; index-native, not a scan. Returns 0 on a closed store.
func (s *Store) TotalInsights() int {
	if s.closed.Load() {
		return 0
	}
	return s.index.Count()
}

// Close releases both backends exactly once. Subsequent operations
// return ErrClosed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return errors.Join(s.log.Close(), s.index.Close())
}

// shortID shortens an identifier for logging.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncateLog truncates text for logging.
func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen]) + "..."
}
