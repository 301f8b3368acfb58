// Package llm defines the provider-neutral chat interface used for both the
// model under test and the judge.
package llm

import "context"

// Roles accepted in a Request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chat sends an ordered list of role-tagged messages and returns one reply.
type Chat interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Message is a single role-tagged message.
type Message struct {
	Role    string
	Content string
}

// Request is a chat completion request.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int64
	Temperature *float64
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is the reply to a Request.
type Response struct {
	Model string
	Text  string
	Usage Usage
}

// System returns a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Float returns a pointer to f, for Request.Temperature.
func Float(f float64) *float64 { return &f }
