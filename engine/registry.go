package engine

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/mnemoware/mnemo-go-sdk/core"
)

// ToolRegistry holds the tools available to the engine, keyed by name.
// Registration order is preserved for the API tool listing.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]core.Tool
	order []string
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]core.Tool),
	}
}

// Register adds tools to the registry. Re-registering a name replaces
// the previous tool and keeps its position.
func (r *ToolRegistry) Register(tools ...core.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range tools {
		name := tool.Definition().ToolName
		if _, exists := r.tools[name]; !exists {
			r.order = append(r.order, name)
		}
		r.tools[name] = tool
	}
}

// Get returns the tool registered under name.
func (r *ToolRegistry) Get(name string) (core.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Definitions returns all tool definitions in registration order.
func (r *ToolRegistry) Definitions() []core.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]core.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// ToAPITools converts the registered tools to Anthropic API tool
// parameters.
func (r *ToolRegistry) ToAPITools() []anthropic.ToolUnionParam {
	defs := r.Definitions()

	apiTools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		apiTools = append(apiTools, toAPITool(def))
	}
	return apiTools
}

// toAPITool maps one definition onto the API's tool parameter shape.
func toAPITool(def core.ToolDefinition) anthropic.ToolUnionParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Properties: def.InputSchema["properties"],
	}
	if required, ok := def.InputSchema["required"]; ok {
		inputSchema.ExtraFields = map[string]interface{}{
			"required": required,
		}
	}

	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        def.ToolName,
			Description: anthropic.String(def.ToolDescription),
			InputSchema: inputSchema,
		},
	}
}
