// Package engine is the thin agent shell around the Claude API: it
// advertises registered tools, dispatches tool_use blocks, and loops
// until the model produces a final text answer. All domain logic lives
// in the tools; the engine is glue.
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/mnemoware/mnemo-go-sdk/core"
)

// Defaults applied when Input leaves them zero.
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096
	DefaultMaxTurns  = 20
)

// Engine runs the tool-call loop against the Claude API.
type Engine struct {
	client   *anthropic.Client
	registry *ToolRegistry

	model        string
	maxTokens    int64
	maxTurns     int
	systemPrompt string
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel sets the default Claude model for runs that don't override
// it.
func WithModel(model string) Option {
	return func(e *Engine) {
		e.model = model
	}
}

// WithMaxTokens sets the default per-turn token cap.
func WithMaxTokens(maxTokens int64) Option {
	return func(e *Engine) {
		e.maxTokens = maxTokens
	}
}

// WithMaxTurns sets the default model-call cap per run.
func WithMaxTurns(maxTurns int) Option {
	return func(e *Engine) {
		e.maxTurns = maxTurns
	}
}

// WithSystemPrompt sets the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(e *Engine) {
		e.systemPrompt = prompt
	}
}

// NewEngine creates an engine over the given client and registry.
func NewEngine(client *anthropic.Client, registry *ToolRegistry, opts ...Option) *Engine {
	e := &Engine{
		client:       client,
		registry:     registry,
		model:        DefaultModel,
		maxTokens:    DefaultMaxTokens,
		maxTurns:     DefaultMaxTurns,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *ToolRegistry {
	return e.registry
}

// Input describes one engine run.
type Input struct {
	// UserMessage is the user's message to process.
	UserMessage string

	// APIKey is the caller's credential, forwarded to tools. For the
	// memory tools it selects the user's private storage root.
	APIKey string

	// History contains previous messages in the conversation.
	History []anthropic.MessageParam

	// SystemPrompt overrides the default system prompt.
	SystemPrompt string

	// Model overrides the default Claude model.
	Model string

	// MaxTokens caps response tokens per turn.
	MaxTokens int64

	// MaxTurns caps model calls per run.
	MaxTurns int
}

// Output is the result of a run.
type Output struct {
	// Text is the model's final text answer.
	Text string

	// ToolsUsed lists the tools invoked, in order.
	ToolsUsed []string

	// Displays collects the human-readable transcripts tools produced,
	// in invocation order. Presentation side channel; may be empty.
	Displays []string
}

// Run executes the loop: call the model, execute any requested tools,
// feed results back, repeat until a plain text answer or the turn cap.
func (e *Engine) Run(ctx context.Context, input *Input) (*Output, error) {
	model := input.Model
	if model == "" {
		model = e.model
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = e.maxTokens
	}
	maxTurns := input.MaxTurns
	if maxTurns == 0 {
		maxTurns = e.maxTurns
	}
	systemPrompt := input.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = e.systemPrompt
	}

	session := NewSession()
	session.RestoreHistory(input.History)
	if input.UserMessage != "" {
		session.AddUserMessage(input.UserMessage)
	}

	apiTools := e.registry.ToAPITools()

	output := &Output{}

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled: %w", err)
		}
		if session.TurnCount >= maxTurns {
			return nil, fmt.Errorf("exceeded maximum turns (%d)", maxTurns)
		}
		session.TurnCount++

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: maxTokens,
			Messages:  session.Messages(),
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
		}
		if len(apiTools) > 0 {
			params.Tools = apiTools
		}

		resp, err := e.client.Messages.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("claude API error: %w", err)
		}

		var toolResults []anthropic.ContentBlockParamUnion
		var textResponse string

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				textResponse += block.Text

			case "tool_use":
				toolResults = append(toolResults, e.dispatch(ctx, input.APIKey, session.ID, output, block))
			}
		}

		// No tool calls means the model is done.
		if len(toolResults) == 0 {
			output.Text = textResponse
			return output, nil
		}

		session.AddAssistantResponse(resp)
		session.AddToolResults(toolResults)
	}
}

// dispatch executes one tool_use block and converts the outcome to a
// tool-result block for the model.
func (e *Engine) dispatch(ctx context.Context, apiKey, requestID string, output *Output, block anthropic.ContentBlockUnion) anthropic.ContentBlockParamUnion {
	tool, ok := e.registry.Get(block.Name)
	if !ok {
		log.Printf("[ENGINE] Unknown tool requested: %s", block.Name)
		return anthropic.NewToolResultBlock(block.ID, fmt.Sprintf("unknown tool: %s", block.Name), true)
	}

	result, err := tool.Execute(ctx, &core.ToolParams{
		APIKey:    apiKey,
		Input:     block.Input,
		RequestID: requestID,
	})

	output.ToolsUsed = append(output.ToolsUsed, block.Name)

	if err != nil {
		log.Printf("[ENGINE] Tool %s failed: %v", block.Name, err)
		return anthropic.NewToolResultBlock(block.ID, err.Error(), true)
	}
	if !result.Success {
		log.Printf("[ENGINE] Tool %s reported failure: %s", block.Name, result.Error)
		return anthropic.NewToolResultBlock(block.ID, result.Error, true)
	}

	if result.Display != "" {
		output.Displays = append(output.Displays, result.Display)
	}

	log.Printf("[ENGINE] Tool %s succeeded", block.Name)
	return anthropic.NewToolResultBlock(block.ID, result.Text, false)
}

// DefaultSystemPrompt is used when Input.SystemPrompt is empty.
const DefaultSystemPrompt = `You are a helpful assistant with long-term memory.

MEMORY GUIDELINES:
- When the user shares an important, novel fact about themselves
  (preferences, personal details, goals, plans, context), store it with
  store_memory. Do not store facts that are already saved.
- Before answering questions about the user's preferences or past
  conversations, recall relevant facts with search_memory.
- Only use delete_all_memories when the user explicitly asks to clear
  their memories, and confirm with them first: deletion is permanent.

Be conversational, concise and accurate.`
