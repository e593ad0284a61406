package engine_test

import (
	"context"
	"testing"

	"github.com/mnemoware/mnemo-go-sdk/core"
	"github.com/mnemoware/mnemo-go-sdk/engine"
	"github.com/mnemoware/mnemo-go-sdk/tools"
)

// fakeTool is a minimal tool for registry tests.
type fakeTool struct {
	name string
}

func (t *fakeTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		ToolName:        t.name,
		ToolDescription: "fake tool " + t.name,
		InputSchema:     tools.ObjectSchema(map[string]interface{}{}),
	}
}

func (t *fakeTool) Execute(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	return &core.ToolResult{Success: true, Text: t.name}, nil
}

func TestToolRegistry_PreservesRegistrationOrder(t *testing.T) {
	registry := engine.NewToolRegistry()
	registry.Register(&fakeTool{name: "alpha"}, &fakeTool{name: "beta"})
	registry.Register(&fakeTool{name: "gamma"})

	defs := registry.Definitions()
	want := []string{"alpha", "beta", "gamma"}
	if len(defs) != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), len(defs))
	}
	for i, name := range want {
		if defs[i].ToolName != name {
			t.Errorf("definition %d = %s, want %s", i, defs[i].ToolName, name)
		}
	}
}

func TestToolRegistry_ReplaceKeepsPosition(t *testing.T) {
	registry := engine.NewToolRegistry()
	first := &fakeTool{name: "alpha"}
	registry.Register(first, &fakeTool{name: "beta"})

	replacement := &fakeTool{name: "alpha"}
	registry.Register(replacement)

	defs := registry.Definitions()
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions after replace, got %d", len(defs))
	}
	if defs[0].ToolName != "alpha" {
		t.Errorf("replaced tool lost its position: %v", defs[0].ToolName)
	}

	got, ok := registry.Get("alpha")
	if !ok {
		t.Fatal("Get(alpha) not found")
	}
	if got != core.Tool(replacement) {
		t.Error("Get returned the old tool after replacement")
	}
}

func TestToolRegistry_GetUnknown(t *testing.T) {
	registry := engine.NewToolRegistry()

	if _, ok := registry.Get("nope"); ok {
		t.Error("Get on empty registry must report not found")
	}
}

func TestToolRegistry_ToAPITools(t *testing.T) {
	registry := engine.NewToolRegistry()
	registry.Register(&fakeTool{name: "alpha"})

	apiTools := registry.ToAPITools()
	if len(apiTools) != 1 {
		t.Fatalf("expected 1 API tool, got %d", len(apiTools))
	}
	if apiTools[0].OfTool == nil {
		t.Fatal("API tool missing OfTool")
	}
	if apiTools[0].OfTool.Name != "alpha" {
		t.Errorf("API tool name = %s, want alpha", apiTools[0].OfTool.Name)
	}
}
