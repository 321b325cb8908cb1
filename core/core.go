// Package core holds the value types shared across the Substrate pipeline:
// conversation roles, context-window messages, and audit verdicts.
package core

// Role identifies the author of a context-window message or stored turn.
type Role string

const (
	// RoleUser marks input authored by the human operator.
	RoleUser Role = "user"

	// RoleAssistant marks output authored by the model.
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry in the context window assembled for a
// turn. Context windows are transient; only the underlying turns and
// insights persist.
type Message struct {
	Role    Role
	Content string
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// AuditResult is the Critic's verdict on a candidate answer.
// Reason is empty iff Passed. Never persisted.
type AuditResult struct {
	Passed bool
	Reason string
}
