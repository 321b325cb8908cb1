package critic_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/critic"
	"github.com/substratehq/substrate/model"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		passed bool
		reason string
	}{
		{"pass literal", "PASS", true, ""},
		{"pass lowercase", "pass", true, ""},
		{"pass with trailing text", "PASS, looks sound to me", true, ""},
		{"pass padded", "  PASS  ", true, ""},
		{"fail with reason", "FAIL: circular reasoning in step 2", false, "circular reasoning in step 2"},
		{"fail lowercase", "fail: missing mechanism", false, "missing mechanism"},
		{"fail without colon", "FAIL the derivation is broken", false, "FAIL the derivation is broken"},
		{"unparseable fails open", "maybe?", true, ""},
		{"empty fails open", "", true, ""},
		{"chatty preamble fails open", "I think this is mostly fine.", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := critic.ParseVerdict(tt.raw)
			assert.Equal(t, tt.passed, result.Passed)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestAuditInvocation(t *testing.T) {
	m := model.NewMockModel("FAIL: no causal mechanism given")
	c := critic.New(m)

	result, err := c.Audit(context.Background(), "Markets fail because they fail.")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, "no causal mechanism given", result.Reason)

	require.Len(t, m.Calls, 1)
	call := m.Calls[0]

	// Auditor instruction, not the Generator's.
	assert.Equal(t, critic.SystemPrompt, call.System)

	// Deterministic sampling for verdict stability.
	assert.Zero(t, call.Params.Temperature)
	assert.Equal(t, 0.8, call.Params.TopP)

	// Single user message wrapping the candidate.
	require.Len(t, call.Messages, 1)
	assert.Equal(t, core.RoleUser, call.Messages[0].Role)
	assert.Contains(t, call.Messages[0].Content, "--- BEGIN DECONSTRUCTION ---")
	assert.Contains(t, call.Messages[0].Content, "Markets fail because they fail.")
	assert.Contains(t, call.Messages[0].Content, "--- END DECONSTRUCTION ---")
}

func TestAuditTransportFailurePropagates(t *testing.T) {
	m := model.NewMockModel()
	m.QueueError(errors.New("quota exceeded"))
	c := critic.New(m)

	_, err := c.Audit(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
