package ai

import (
	"context"
	"errors"
)

// ErrNoProvider is returned by constructors when no API key is configured.
// Callers treat it as "model unavailable" rather than a startup failure.
var ErrNoProvider = errors.New("ai: no provider configured")

// LLMProvider defines the contract for interacting with generative models.
// Gemini and OpenAI both implement it; the chat, recommendation and pricing
// modules only ever see this interface.
type LLMProvider interface {
	// Generate sends one prompt. When req.Tools is non-empty the model may answer
	// with tool invocations instead of (or alongside) text. When
	// req.ResponseSchema is set the text is expected to be JSON matching it.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request is a single model call.
type Request struct {
	Prompt         string
	Tools          []Tool
	ResponseSchema *Schema
	// JSON asks for a bare JSON object without a schema.
	JSON bool
}

// Response carries whatever the model produced.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Tool is a callable function descriptor offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  *Schema
}

// ToolCall is one invocation the model asked for. Numbers in Args arrive as float64.
type ToolCall struct {
	Name string
	Args map[string]any
}

// GenerationConfig holds sampling settings shared by all providers.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// DefaultGeneration matches the settings the planner chat has always used.
var DefaultGeneration = GenerationConfig{
	Temperature:     0.7,
	TopP:            0.95,
	TopK:            40,
	MaxOutputTokens: 8192,
}
