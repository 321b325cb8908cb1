// Package anthropic adapts the Anthropic Messages API to the generic
// model.Model interface.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/model"
)

// DefaultModel is used when no model id is configured.
const DefaultModel = anthropic.Model("claude-sonnet-4-20250514")

// Options configures the adapter.
type Options struct {
	// Model is the Claude model identifier.
	Model anthropic.Model

	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string

	// MaxTokens is the default response cap when a request does not set one.
	MaxTokens int64
}

// Model wraps the Anthropic Messages API behind model.Model.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// New creates an Anthropic-backed model.
func New(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:     DefaultModel,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// Generate implements model.Model. Failures from the API are returned
// unwrapped of any retry logic: the pipeline treats them as fatal for the
// current turn.
func (m *Model) Generate(ctx context.Context, system string, messages []core.Message, params model.SamplingParams) (string, error) {
	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = m.opts.MaxTokens
	}

	req := anthropic.MessageNewParams{
		Model:     m.opts.Model,
		MaxTokens: maxTokens,
		Messages:  toAPIMessages(messages),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Temperature: anthropic.Float(params.Temperature),
		TopP:        anthropic.Float(params.TopP),
	}

	resp, err := m.client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	// Concatenate text blocks; an empty completion is valid.
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// Name implements model.Model.
func (m *Model) Name() string { return string(m.opts.Model) }

// toAPIMessages converts context-window messages to API params.
func toAPIMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return out
}
