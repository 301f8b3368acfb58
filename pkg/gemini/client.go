// Package gemini adapts the Google GenAI SDK to llm.Chat.
package gemini

import (
	"context"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"github.com/sells-group/needlebench/pkg/llm"
)

// Client generates content for a model. It matches genai.Models.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini API client. baseURL may be empty.
func NewClient(ctx context.Context, apiKey, baseURL string) (Client, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return client.Models, nil
}

// Chat exposes a Client through llm.Chat. System messages become the system
// instruction; consecutive messages of one role are sent as parts of a
// single turn.
type Chat struct {
	client Client
}

// NewChat wraps client.
func NewChat(client Client) *Chat {
	return &Chat{client: client}
}

// Complete implements llm.Chat.
func (c *Chat) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}

	var system []*genai.Part
	var contents []*genai.Content
	for _, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			system = append(system, genai.NewPartFromText(m.Content))
			continue
		}
		var role genai.Role = genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		if n := len(contents); n > 0 && contents[n-1].Role == string(role) {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.NewPartFromText(m.Content))
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}

	resp, err := c.client.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}
	if len(resp.Candidates) == 0 {
		return nil, eris.New("gemini: response has no candidates")
	}

	out := &llm.Response{Model: req.Model, Text: resp.Text()}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = llm.Usage{
			InputTokens:  int64(u.PromptTokenCount),
			OutputTokens: int64(u.CandidatesTokenCount),
		}
	}
	return out, nil
}
