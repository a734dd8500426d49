// Package llm defines the chat-completion interface shared by the
// commentary providers.
package llm

import (
	"context"
	"time"
)

// DefaultMaxTokens caps responses when a request leaves MaxTokens unset.
const DefaultMaxTokens = 1024

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Options configures a provider. Empty fields select provider defaults.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ChatRequest holds the request parameters
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
}

// MaxTokensOrDefault returns MaxTokens, or DefaultMaxTokens when unset.
func (r ChatRequest) MaxTokensOrDefault() int {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

// Message represents a chat message
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// UserMessage returns a user turn.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatResponse holds the response from the LLM
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}
