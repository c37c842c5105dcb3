package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/suzudai/my-chat-app/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by orchestrators.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	MaxTokens    int              `json:"max_tokens,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final completion returned by a model call.
type Response struct {
	ID           string          `json:"id"`
	Text         string          `json:"text"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by orchestrators to drive generation.
// Generate blocks until the provider returns a complete response.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Float returns a pointer to the given temperature value.
func Float(v float64) *float64 { return &v }

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are resolved in order: scripted queue first, then the canned
// per-prompt map, then a generic echo.
type MockModel struct {
	info      Info
	responses map[string]string
	queue     []string
	err       error
	requests  []Request
	mu        sync.Mutex
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends scripted completions consumed in FIFO order before any
// per-prompt responses are consulted.
func (m *MockModel) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// FailWith makes every subsequent Generate call return err. Pass nil to clear.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests seen so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.err != nil {
		return nil, m.err
	}

	if len(m.queue) > 0 {
		text := m.queue[0]
		m.queue = m.queue[1:]
		return &Response{ID: core.NewID(), Text: text, FinishReason: "stop"}, nil
	}

	var inputText string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == core.RoleUser {
			inputText = req.Messages[i].Text
			break
		}
	}
	if full, ok := m.responses[inputText]; ok {
		return &Response{ID: core.NewID(), Text: full, FinishReason: "stop"}, nil
	}
	return &Response{ID: core.NewID(), Text: fmt.Sprintf("Mock response to: %s", inputText), FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
