package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by a model.
	RoleAssistant Role = "assistant"
	// RoleSystem marks instruction messages.
	RoleSystem Role = "system"
	// RoleTool marks a tool execution result.
	RoleTool Role = "tool"
)

// ToolCall is a model-requested function invocation carried on an assistant
// message. Arguments hold the raw JSON argument payload.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is a single conversation turn. Assistant messages may carry tool
// calls; tool messages reference the call they answer via ToolCallID.
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Text       string     `json:"text"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current timestamp.
func NewMessage(role Role, text string) Message {
	return Message{ID: NewID(), Role: role, Text: text, Timestamp: time.Now()}
}

// NewToolMessage creates a tool-result message answering the given call.
func NewToolMessage(callID, text string) Message {
	m := NewMessage(RoleTool, text)
	m.ToolCallID = callID
	return m
}

// NewID generates a unique identifier for messages, sessions and runs.
func NewID() string {
	return uuid.NewString()
}
