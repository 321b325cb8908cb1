// Package memory provides Substrate's dual persistent memory: a
// chronological log of turns and a semantic index of insights.
//
// The two stores answer orthogonal questions. Recency ("what was just
// discussed") is bounded, per-session, and ordering-sensitive; similarity
// ("what is relevant regardless of when") spans every session ever
// recorded and is ranking-sensitive. Keeping them as separate read paths
// against separate backends lets each be optimized for its access
// pattern.
//
// Architecture:
//   - Log: append-only chronological storage (sqlite for the CLI,
//     in-memory fakes for tests)
//   - Index: embedding-based nearest-neighbor storage (chromem-go)
//   - Embedder: text-to-vector conversion (hash-based by default, ONNX
//     all-MiniLM-L6-v2 behind the onnx build tag, ristretto-cached
//     decorator in between)
//   - Store: the composite the orchestrator talks to; owns the dual
//     write and both read paths
//
// The two backends are not transactionally coupled. Save writes the log
// first, then the index; a failure between the two leaves a known
// inconsistency window that is surfaced, not rolled back.
package memory
