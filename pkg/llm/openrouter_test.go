package llm_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/llm"
)

type mockCompleter struct {
	response    openai.ChatCompletionResponse
	err         error
	captured    openai.ChatCompletionRequest
	deadline    time.Time
	hasDeadline bool
}

func (m *mockCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.captured = request
	m.deadline, m.hasDeadline = ctx.Deadline()
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return m.response, nil
}

func temperature(v float64) *float64 {
	return &v
}

func TestCallTranslatesRequestAndResponse(t *testing.T) {
	mock := &mockCompleter{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{
					FinishReason: "stop",
					Message: openai.ChatCompletionMessage{
						Role:             "assistant",
						Content:          "hi there",
						ReasoningContent: "thinking out loud",
					},
				},
			},
			Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
	}
	client := llm.NewOpenRouterClientWithCompleter(mock, time.Minute)

	res, err := client.Call(context.Background(), llm.CallRequest{
		Model: "anthropic/claude-3.5-sonnet",
		Messages: []llm.Message{
			llm.SystemMessage("You are concise."),
			llm.UserMessage("ping"),
		},
		Temperature: temperature(0.9),
	})
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-3.5-sonnet", res.Model)
	assert.Equal(t, "hi there", res.Content)
	assert.Equal(t, "thinking out loud", res.Reasoning)
	assert.Equal(t, 10, res.Usage.PromptTokens)
	assert.Equal(t, 5, res.Usage.CompletionTokens)
	assert.Equal(t, 15, res.Usage.TotalTokens)

	req := mock.captured
	assert.Equal(t, "anthropic/claude-3.5-sonnet", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "You are concise.", req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "ping", req.Messages[1].Content)
	assert.Equal(t, float32(0.9), req.Temperature)

	require.True(t, mock.hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), mock.deadline, 5*time.Second)
}

func TestCallOmitsTemperatureWhenUnset(t *testing.T) {
	mock := &mockCompleter{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	client := llm.NewOpenRouterClientWithCompleter(mock, time.Minute)

	_, err := client.Call(context.Background(), llm.CallRequest{
		Model:    "openai/gpt-4o",
		Messages: []llm.Message{llm.UserMessage("ping")},
	})
	require.NoError(t, err)
	assert.Zero(t, mock.captured.Temperature)
}

func TestCallPerCallTimeoutOverridesDefault(t *testing.T) {
	mock := &mockCompleter{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	client := llm.NewOpenRouterClientWithCompleter(mock, time.Minute)

	_, err := client.Call(context.Background(), llm.CallRequest{
		Model:    "openai/gpt-4o",
		Messages: []llm.Message{llm.UserMessage("ping")},
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	require.True(t, mock.hasDeadline)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), mock.deadline, 2*time.Second)
}

func TestCallRejectsEmptyRequests(t *testing.T) {
	client := llm.NewOpenRouterClientWithCompleter(&mockCompleter{}, time.Minute)

	_, err := client.Call(context.Background(), llm.CallRequest{
		Messages: []llm.Message{llm.UserMessage("ping")},
	})
	assert.ErrorContains(t, err, "model is required")

	_, err = client.Call(context.Background(), llm.CallRequest{Model: "openai/gpt-4o"})
	assert.ErrorContains(t, err, "at least one message")
}

func TestCallNoChoicesIsMalformed(t *testing.T) {
	client := llm.NewOpenRouterClientWithCompleter(&mockCompleter{}, time.Minute)

	_, err := client.Call(context.Background(), llm.CallRequest{
		Model:    "openai/gpt-4o",
		Messages: []llm.Message{llm.UserMessage("ping")},
	})
	require.ErrorIs(t, err, llm.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "openai/gpt-4o")
}

func TestCallWrapsUpstreamError(t *testing.T) {
	mock := &mockCompleter{
		err: &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"},
	}
	client := llm.NewOpenRouterClientWithCompleter(mock, time.Minute)

	_, err := client.Call(context.Background(), llm.CallRequest{
		Model:    "openai/gpt-4o",
		Messages: []llm.Message{llm.UserMessage("ping")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion:")

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatusCode)
}

func TestAttributionHeadersSent(t *testing.T) {
	var gotHeader http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "gen-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "openai/gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "pong"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 1, "total_tokens": 4}
		}`)
	}))
	defer server.Close()

	cfg := &config.UpstreamConfig{
		BaseURL:        server.URL,
		Referer:        "https://github.com/curia-dev/curia",
		AppTitle:       "AI Council",
		RequestTimeout: 10 * time.Second,
	}
	client := llm.NewOpenRouterClient(cfg, "sk-or-test-not-real")

	res, err := client.Call(context.Background(), llm.CallRequest{
		Model:    "openai/gpt-4o",
		Messages: []llm.Message{llm.UserMessage("ping")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", res.Content)
	assert.Equal(t, 4, res.Usage.TotalTokens)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "https://github.com/curia-dev/curia", gotHeader.Get("HTTP-Referer"))
	assert.Equal(t, "AI Council", gotHeader.Get("X-Title"))
	assert.Contains(t, gotHeader.Get("Authorization"), "Bearer ")
}
