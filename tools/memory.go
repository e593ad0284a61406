// Package tools exposes the long-term memory operations as callable
// tools for the agent engine, plus helpers for building their JSON
// schemas.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mnemoware/mnemo-go-sdk/core"
	"github.com/mnemoware/mnemo-go-sdk/memory"
)

// Defaults and bounds for tool inputs.
const (
	DefaultImportance = 0.5
	DefaultTopK       = 5
	MinTopK           = 1
	MaxTopK           = 20
)

// MemoryTools returns the three memory tools bound to store.
func MemoryTools(store *memory.LongTermStore) []core.Tool {
	return []core.Tool{
		&StoreMemoryTool{store: store},
		&SearchMemoryTool{store: store},
		&DeleteMemoriesTool{store: store},
	}
}

// StoreMemoryTool saves an important, novel fact about the user.
type StoreMemoryTool struct {
	store *memory.LongTermStore
}

type storeMemoryInput struct {
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Importance *float64 `json:"importance"`
	Topics     []string `json:"topics"`
}

// Definition returns the tool's name, description and input schema.
func (t *StoreMemoryTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		ToolName: "store_memory",
		ToolDescription: "Stores a long-term memory about the user. Use this tool to save important, novel facts " +
			"that the user shares during conversation: preferences (e.g. 'prefers Python over JavaScript'), " +
			"personal details (e.g. 'lives in Paris'), goals and plans (e.g. 'learning Spanish'), or important " +
			"context (e.g. 'has a cat named Mittens'). Only store NEW information. Keep memories concise and " +
			"factual; avoid temporary or session-specific information.",
		InputSchema: ObjectSchema(map[string]interface{}{
			"content":    StringProperty("The memory content to store. A clear, concise fact about the user."),
			"category":   StringProperty("Category of the info (e.g. 'preferences', 'personal_info', 'goals', 'plans', 'context')"),
			"importance": NumberProperty("Importance score between 0 and 1. Higher means more important to remember.", 0, 1),
			"topics":     ArrayProperty("Related topics or tags for the memory", StringProperty("topic tag")),
		}, "content", "category"),
	}
}

// Execute validates the input and stores the memory.
func (t *StoreMemoryTool) Execute(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	var input storeMemoryInput
	if err := core.DecodeInput("store_memory", params.Input, &input); err != nil {
		return nil, err
	}
	if input.Content == "" {
		return nil, &core.InputError{Tool: "store_memory", Reason: "content must not be empty"}
	}
	if input.Category == "" {
		return nil, &core.InputError{Tool: "store_memory", Reason: "category must not be empty"}
	}

	importance := DefaultImportance
	if input.Importance != nil {
		importance = *input.Importance
	}
	if importance < 0 || importance > 1 {
		return nil, &core.InputError{Tool: "store_memory", Reason: "importance must be in [0,1]"}
	}

	text, err := t.store.Add(ctx, params.APIKey, input.Content, importance, input.Category, input.Topics)
	if err != nil {
		return nil, fmt.Errorf("store memory: %w", err)
	}

	var display strings.Builder
	display.WriteString("## Memory Storage\n")
	fmt.Fprintf(&display, "**Content**: %s\n", input.Content)
	fmt.Fprintf(&display, "**Category**: %s\n", input.Category)
	fmt.Fprintf(&display, "**Importance**: %g\n", importance)
	if len(input.Topics) > 0 {
		fmt.Fprintf(&display, "**Topics**: %s\n", strings.Join(input.Topics, ", "))
	}
	fmt.Fprintf(&display, "\n**Result**: %s\n", text)

	return &core.ToolResult{Success: true, Text: text, Display: display.String()}, nil
}

// SearchMemoryTool recalls stored facts by semantic similarity.
type SearchMemoryTool struct {
	store *memory.LongTermStore
}

type searchMemoryInput struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

// Definition returns the tool's name, description and input schema.
func (t *SearchMemoryTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		ToolName: "search_memory",
		ToolDescription: "Searches long-term memories about the user using semantic similarity. Use this tool to " +
			"recall previously stored preferences, personal details, goals, or context. The search is " +
			"meaning-based, so questions and keywords both work (e.g. 'What programming languages does the user " +
			"like?'). Always search memories before answering questions about the user's preferences or past " +
			"conversations.",
		InputSchema: ObjectSchema(map[string]interface{}{
			"query": StringProperty("The search query. Can be a question or keywords to find relevant memories."),
			"top_k": IntegerProperty("Number of most relevant memories to return.", MinTopK, MaxTopK),
		}, "query"),
	}
}

// Execute validates the input and runs the search. top_k defaults to 5
// and is clamped to [1,20].
func (t *SearchMemoryTool) Execute(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	var input searchMemoryInput
	if err := core.DecodeInput("search_memory", params.Input, &input); err != nil {
		return nil, err
	}
	if input.Query == "" {
		return nil, &core.InputError{Tool: "search_memory", Reason: "query must not be empty"}
	}

	topK := DefaultTopK
	if input.TopK != nil {
		topK = *input.TopK
	}
	if topK < MinTopK {
		topK = MinTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	results, err := t.store.Search(ctx, params.APIKey, input.Query, topK)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}

	var text string
	if len(results) == 0 {
		text = "No memories found."
	} else {
		var lines []string
		for i, m := range results {
			lines = append(lines, fmt.Sprintf("**%d. %s**", i+1, m.Content))
			lines = append(lines, fmt.Sprintf("   - Category: %s", m.Category))
			if len(m.Topics) > 0 {
				lines = append(lines, fmt.Sprintf("   - Topics: %s", strings.Join(m.Topics, ", ")))
			}
		}
		text = strings.Join(lines, "\n")
	}

	display := fmt.Sprintf("## Memory Search\n**Query**: %s\n\n**Results**:\n%s\n", input.Query, text)

	return &core.ToolResult{Success: true, Text: text, Display: display}, nil
}

// DeleteMemoriesTool permanently removes every stored memory for the
// user. Irreversible; the model is instructed to confirm first.
type DeleteMemoriesTool struct {
	store *memory.LongTermStore
}

// Definition returns the tool's name, description and input schema.
func (t *DeleteMemoriesTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		ToolName: "delete_all_memories",
		ToolDescription: "Permanently deletes ALL long-term memories stored about the user. This action cannot be " +
			"undone. Use only when the user explicitly requests to clear all their stored memories, and confirm " +
			"with them first: this removes all saved preferences, personal information, goals, and context.",
		InputSchema: ObjectSchema(map[string]interface{}{}),
	}
}

// Execute deletes the user's memories. Deleting when nothing is stored
// still succeeds.
func (t *DeleteMemoriesTool) Execute(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	// No parameters, but still reject junk arguments.
	if len(params.Input) > 0 {
		var empty struct{}
		if err := core.DecodeInput("delete_all_memories", params.Input, &empty); err != nil {
			return nil, err
		}
	}

	text, err := t.store.DeleteAll(ctx, params.APIKey)
	if err != nil {
		return nil, fmt.Errorf("delete memories: %w", err)
	}

	display := fmt.Sprintf("## Memory Deletion\n**Result**: %s\n", text)

	return &core.ToolResult{Success: true, Text: text, Display: display}, nil
}
