package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/needlebench/pkg/llm"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

// newTestClient creates an sdkClient pointing at a local test server.
func newTestClient(baseURL string) *sdkClient {
	return &sdkClient{
		client: sdk.NewClient(
			option.WithAPIKey("test-key"),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
	}
}

func messageJSON(text string) map[string]any {
	return map[string]any{
		"id":   "msg_test_001",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"model":       "claude-sonnet-4-5-20250929",
		"stop_reason": "end_turn",
		"usage": map[string]any{
			"input_tokens":  10,
			"output_tokens": 5,
		},
	}
}

func TestSDKClient_CreateMessage(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messageJSON("Hello from test")) //nolint:errcheck
	}))
	defer ts.Close()

	temp := 0.0
	client := newTestClient(ts.URL)
	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   300,
		System:      []SystemBlock{{Text: "Keep your response short"}},
		Messages:    []Message{{Role: "user", Content: "Hello"}},
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_test_001", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "Hello from test", resp.Text())
	assert.Equal(t, int64(10), resp.Usage.InputTokens)
	assert.Equal(t, int64(5), resp.Usage.OutputTokens)

	assert.Equal(t, "claude-sonnet-4-5-20250929", body["model"])
	assert.EqualValues(t, 300, body["max_tokens"])
	assert.NotNil(t, body["system"])
}

func TestSDKClient_CreateMessage_Error(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"type": "error",
			"error": map[string]any{
				"type":    "invalid_request_error",
				"message": "prompt is too long",
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 10,
		Messages:  []Message{{Role: "user", Content: "Hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: create message")
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "Eat a sandwich "},
		{Type: "tool_use"},
		{Type: "text", Text: "in Dolores Park."},
	}}
	assert.Equal(t, "Eat a sandwich in Dolores Park.", resp.Text())
}

func TestChat_LiftsSystemMessages(t *testing.T) {
	mc := &MockClient{}
	temp := 0.0

	mc.On("CreateMessage", mock.Anything, MessageRequest{
		Model:       "claude-2",
		MaxTokens:   300,
		Temperature: &temp,
		System:      []SystemBlock{{Text: "be brief"}},
		Messages: []Message{
			{Role: "user", Content: "haystack"},
			{Role: "user", Content: "question"},
		},
	}).Return(&MessageResponse{
		Model:   "claude-2",
		Content: []ContentBlock{{Type: "text", Text: "answer"}},
		Usage:   TokenUsage{InputTokens: 900, OutputTokens: 12},
	}, nil)

	resp, err := NewChat(mc).Complete(context.Background(), llm.Request{
		Model:       "claude-2",
		MaxTokens:   300,
		Temperature: &temp,
		Messages: []llm.Message{
			llm.System("be brief"),
			llm.User("haystack"),
			llm.User("question"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Text)
	assert.Equal(t, int64(900), resp.Usage.InputTokens)
	mc.AssertExpectations(t)
}

func TestChat_PropagatesError(t *testing.T) {
	mc := &MockClient{}
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := NewChat(mc).Complete(context.Background(), llm.Request{Messages: []llm.Message{llm.User("q")}})
	assert.ErrorIs(t, err, assert.AnError)
}
