package core

import (
	"context"
	"encoding/json"
)

// ToolDefinition describes a tool exposed to the model.
// InputSchema is a JSON Schema object built with the helpers in the
// tools package.
type ToolDefinition struct {
	ToolName        string
	ToolDescription string
	InputSchema     map[string]interface{}
}

// Tool is a callable capability the engine can dispatch to.
// Implementations validate their own input payload before acting and
// return a typed error for malformed or unknown fields rather than
// panicking on free-form JSON.
type Tool interface {
	// Definition returns the tool's name, description and input schema.
	Definition() ToolDefinition

	// Execute runs the tool with the given parameters.
	Execute(ctx context.Context, params *ToolParams) (*ToolResult, error)
}

// ToolParams carries per-invocation context into a tool.
type ToolParams struct {
	// APIKey is the caller's credential. For memory tools it also
	// determines the user's private storage root.
	APIKey string

	// Input is the raw JSON arguments produced by the model.
	Input json.RawMessage

	// RequestID identifies the engine run that issued this call.
	RequestID string
}

// ToolResult is the outcome of a tool execution.
type ToolResult struct {
	// Success reports whether the tool completed its operation.
	Success bool

	// Text is the plain-text result returned to the model.
	Text string

	// Display is an optional human-readable transcript (markdown)
	// suitable for surfacing in a UI stage. It is a presentation side
	// channel; the programmatic contract is Text.
	Display string

	// Error holds the failure message when Success is false.
	Error string
}
