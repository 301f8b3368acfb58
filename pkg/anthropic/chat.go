package anthropic

import (
	"context"

	"github.com/sells-group/needlebench/pkg/llm"
)

// Chat exposes a Client through llm.Chat. System messages anywhere in the
// request are lifted into the system prompt, in order; consecutive user
// messages are sent as separate turns.
type Chat struct {
	client Client
}

// NewChat wraps client.
func NewChat(client Client) *Chat {
	return &Chat{client: client}
}

// Complete implements llm.Chat.
func (c *Chat) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	mr := MessageRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			mr.System = append(mr.System, SystemBlock{Text: m.Content})
			continue
		}
		mr.Messages = append(mr.Messages, Message{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateMessage(ctx, mr)
	if err != nil {
		return nil, err
	}
	return &llm.Response{
		Model: resp.Model,
		Text:  resp.Text(),
		Usage: llm.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}
