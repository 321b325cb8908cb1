package model_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/model"
)

func TestMockModelReplaysScript(t *testing.T) {
	ctx := context.Background()
	m := model.NewMockModel("first", "second")

	out, err := m.Generate(ctx, "sys", []core.Message{core.UserMessage("a")}, model.SamplingParams{})
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	out, err = m.Generate(ctx, "sys", []core.Message{core.UserMessage("b")}, model.SamplingParams{})
	require.NoError(t, err)
	assert.Equal(t, "second", out)

	// Script exhausted: echoes the last message.
	out, err = m.Generate(ctx, "sys", []core.Message{core.UserMessage("c")}, model.SamplingParams{})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: c", out)
}

func TestMockModelQueuedError(t *testing.T) {
	m := model.NewMockModel()
	m.QueueError(errors.New("boom"))

	_, err := m.Generate(context.Background(), "sys", []core.Message{core.UserMessage("a")}, model.SamplingParams{})
	require.Error(t, err)
	assert.Len(t, m.Calls, 1, "failed calls are recorded too")
}

func TestMockModelRecordsCalls(t *testing.T) {
	m := model.NewMockModel("ok")
	params := model.SamplingParams{Temperature: 0.2, TopP: 0.95}

	_, err := m.Generate(context.Background(), "instructions",
		[]core.Message{core.UserMessage("q"), core.AssistantMessage("a")}, params)
	require.NoError(t, err)

	require.Len(t, m.Calls, 1)
	assert.Equal(t, "instructions", m.Calls[0].System)
	assert.Equal(t, params, m.Calls[0].Params)
	require.Len(t, m.Calls[0].Messages, 2)
	assert.Equal(t, core.RoleAssistant, m.Calls[0].Messages[1].Role)
}
