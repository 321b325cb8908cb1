// Package model defines the minimal language-model interface the Substrate
// pipeline consumes: system instruction plus ordered messages in, text out.
// Providers are adapters (see model/anthropic); MockModel covers tests.
package model

import (
	"context"
	"fmt"

	"github.com/substratehq/substrate/core"
)

// SamplingParams pins the sampling behavior for a single generation.
// The Generator runs low temperature with fixed nucleus sampling; the
// Critic pins temperature to zero for verdict stability.
type SamplingParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int64
}

// Model is the synchronous generation contract. Implementations do not
// retry: a transport failure is returned as-is and fails the whole turn.
// An empty response text is valid, not an error.
type Model interface {
	// Generate produces a completion for the given system instruction and
	// conversation. The returned text is the concatenation of all text
	// content in the provider's response.
	Generate(ctx context.Context, system string, messages []core.Message, params SamplingParams) (string, error)

	// Name returns the provider model identifier, for display only.
	Name() string
}

// Call records one Generate invocation made against a MockModel.
type Call struct {
	System   string
	Messages []core.Message
	Params   SamplingParams
}

// MockModel is an in-memory Model for tests. It replays a scripted queue
// of responses (or errors) and records every call it receives.
type MockModel struct {
	name      string
	responses []string
	errs      []error
	Calls     []Call
}

// NewMockModel constructs a MockModel that replays the given responses in
// order. Once the script is exhausted it echoes the last user message.
func NewMockModel(responses ...string) *MockModel {
	return &MockModel{
		name:      "mock",
		responses: responses,
		errs:      make([]error, len(responses)),
	}
}

// QueueResponse appends a scripted response.
func (m *MockModel) QueueResponse(text string) {
	m.responses = append(m.responses, text)
	m.errs = append(m.errs, nil)
}

// QueueError appends a scripted transport failure.
func (m *MockModel) QueueError(err error) {
	m.responses = append(m.responses, "")
	m.errs = append(m.errs, err)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, system string, messages []core.Message, params SamplingParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Record the call before replying so failed calls are visible too.
	recorded := make([]core.Message, len(messages))
	copy(recorded, messages)
	m.Calls = append(m.Calls, Call{System: system, Messages: recorded, Params: params})

	i := len(m.Calls) - 1
	if i < len(m.responses) {
		if m.errs[i] != nil {
			return "", m.errs[i]
		}
		return m.responses[i], nil
	}

	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	return fmt.Sprintf("Mock response to: %s", messages[len(messages)-1].Content), nil
}

// Name implements Model.
func (m *MockModel) Name() string { return m.name }
