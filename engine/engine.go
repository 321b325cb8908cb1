// Package engine runs the Generator/Critic pipeline: it assembles
// context from dual memory, generates a deconstruction, audits it,
// regenerates at most once on a failed audit, validates the output
// structure, and writes the exchange back to memory.
package engine

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/critic"
	"github.com/substratehq/substrate/memory"
	"github.com/substratehq/substrate/model"
)

const (
	// similarLimit caps cross-session insights injected per turn.
	similarLimit = 2

	// recentLimit caps same-session turns replayed per turn.
	recentLimit = 10
)

// generatorSampling keeps generation conservative: low temperature,
// fixed nucleus sampling.
var generatorSampling = model.SamplingParams{
	Temperature: 0.2,
	TopP:        0.95,
}

// AuditInfo is reported to the caller alongside the response text.
// Passed and Reason always reflect the first audit, even when the
// answer was regenerated afterwards.
type AuditInfo struct {
	Passed      bool
	Reason      string
	Regenerated bool
}

// Hooks are optional observers fired around the audit phase. UI
// feedback only; they have no semantic effect on the turn.
type Hooks struct {
	OnAuditStart func()
	OnAuditEnd   func()
}

// Engine orchestrates one turn end-to-end. Single-threaded by design:
// one turn runs to completion before the next begins.
type Engine struct {
	model  model.Model
	memory *memory.Store
	critic *critic.Critic
	hooks  Hooks
}

// Option configures the engine.
type Option func(*Engine)

// WithHooks sets the audit observer hooks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// New creates an engine over the given model, memory store, and critic.
func New(m model.Model, store *memory.Store, c *critic.Critic, opts ...Option) *Engine {
	e := &Engine{
		model:  m,
		memory: store,
		critic: c,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunTurn processes one user input through the full pipeline:
//
//	AssembleContext -> Generate -> Audit -> (Regenerate?) -> ValidateStructure -> Persist
//
// Any model transport failure, and any storage failure during context
// assembly or persistence, fails the whole turn: the error propagates
// and nothing is written to memory for a failed generation.
func (e *Engine) RunTurn(ctx context.Context, sessionID, userInput string) (string, AuditInfo, error) {
	messages, err := e.assembleContext(ctx, sessionID, userInput)
	if err != nil {
		return "", AuditInfo{}, err
	}

	assistantText, err := e.model.Generate(ctx, GeneratorSystemPrompt, messages, generatorSampling)
	if err != nil {
		return "", AuditInfo{}, fmt.Errorf("generate: %w", err)
	}

	verdict, err := e.audit(ctx, assistantText)
	if err != nil {
		return "", AuditInfo{}, fmt.Errorf("audit: %w", err)
	}

	info := AuditInfo{Passed: verdict.Passed, Reason: verdict.Reason}

	// At most one regeneration. The reported verdict stays the first
	// audit's; the regenerated answer is deliberately not re-audited.
	if !verdict.Passed {
		log.Debugf("[ENGINE] Audit failed (%s), regenerating once", verdict.Reason)

		messages = append(messages,
			core.AssistantMessage(assistantText),
			core.UserMessage(fmt.Sprintf(regenerateTemplate, verdict.Reason)),
		)
		assistantText, err = e.model.Generate(ctx, GeneratorSystemPrompt, messages, generatorSampling)
		if err != nil {
			return "", AuditInfo{}, fmt.Errorf("regenerate: %w", err)
		}
		info.Regenerated = true
	}

	// Annotate, never block. The warning becomes part of recorded history.
	assistantText = AppendStructureWarning(assistantText)

	if err := e.memory.Save(ctx, sessionID, userInput, assistantText); err != nil {
		return "", AuditInfo{}, fmt.Errorf("persist exchange: %w", err)
	}

	return assistantText, info, nil
}

// assembleContext builds the ordered message window: recalled
// cross-session insights (when any exist) as a synthetic user/assistant
// pair, then the session's recent turns, then the new input.
//
// A genuine storage fault on either read is fatal to the turn; only the
// cold-start empty result degrades to "no similar items".
func (e *Engine) assembleContext(ctx context.Context, sessionID, userInput string) ([]core.Message, error) {
	var messages []core.Message

	similar, err := e.memory.Similar(ctx, userInput, similarLimit)
	if err != nil {
		return nil, fmt.Errorf("retrieve similar insights: %w", err)
	}
	if len(similar) > 0 {
		joined := strings.Join(similar, insightSeparator)
		messages = append(messages,
			core.UserMessage(fmt.Sprintf(pastContextTemplate, joined)),
			core.AssistantMessage(pastContextAck),
		)
	}

	recent, err := e.memory.Recent(ctx, sessionID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("retrieve recent turns: %w", err)
	}
	for _, turn := range recent {
		messages = append(messages, core.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, core.UserMessage(userInput))

	log.Debugf("[ENGINE] Assembled context: %d similar insight(s), %d recent turn(s)",
		len(similar), len(recent))
	return messages, nil
}

// audit runs the critic with the observer hooks around it.
func (e *Engine) audit(ctx context.Context, candidate string) (core.AuditResult, error) {
	if e.hooks.OnAuditStart != nil {
		e.hooks.OnAuditStart()
	}
	if e.hooks.OnAuditEnd != nil {
		defer e.hooks.OnAuditEnd()
	}
	return e.critic.Audit(ctx, candidate)
}
