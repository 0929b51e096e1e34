// Package llm talks to the upstream OpenRouter API.
//
// Callers work against the small Client interface and the package's own
// message types, never against SDK types directly. The concrete
// OpenRouterClient adapts the go-openai SDK to OpenRouter's
// OpenAI-compatible endpoint.
package llm

import (
	"context"
	"time"
)

// Message roles understood by the upstream chat API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage returns a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// CallRequest describes a single chat completion call.
type CallRequest struct {
	// Model is the upstream model identifier,
	// e.g. "anthropic/claude-3.5-sonnet".
	Model string

	// Messages is the conversation sent to the model, in order.
	Messages []Message

	// Temperature overrides the model default when set.
	Temperature *float64

	// Timeout bounds this call. Zero means the client default.
	Timeout time.Duration
}

// Usage reports token consumption for one call as counted upstream.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// CallResult is the outcome of a successful chat completion call.
type CallResult struct {
	// Model echoes the requested model identifier.
	Model string `json:"model"`

	// Content is the assistant message text.
	Content string `json:"content"`

	// Reasoning carries the model's reasoning trace when the upstream
	// returns one. Empty for most models.
	Reasoning string `json:"reasoning,omitempty"`

	// Usage reports token consumption for the call.
	Usage Usage `json:"usage"`
}

// Client is the engine's view of the upstream chat API.
type Client interface {
	Call(ctx context.Context, req CallRequest) (*CallResult, error)
}
