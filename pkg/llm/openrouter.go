package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/curia-dev/curia/pkg/config"
)

// ChatCompleter is the subset of the go-openai client used by the
// OpenRouter adapter. Tests substitute their own implementation.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenRouterClient calls an OpenRouter-compatible chat completion endpoint.
type OpenRouterClient struct {
	chat    ChatCompleter
	timeout time.Duration
}

var _ Client = (*OpenRouterClient)(nil)

// headerTransport adds the attribution headers OpenRouter reads for app
// rankings to every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("HTTP-Referer", t.referer)
	clone.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(clone)
}

// NewOpenRouterClient builds a client for the configured upstream endpoint.
func NewOpenRouterClient(cfg *config.UpstreamConfig, apiKey string) *OpenRouterClient {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.AppTitle,
		},
	}
	return &OpenRouterClient{
		chat:    openai.NewClientWithConfig(clientConfig),
		timeout: cfg.RequestTimeout,
	}
}

// NewOpenRouterClientWithCompleter wires a custom chat backend. Used by tests.
func NewOpenRouterClientWithCompleter(chat ChatCompleter, timeout time.Duration) *OpenRouterClient {
	return &OpenRouterClient{chat: chat, timeout: timeout}
}

// Call sends one chat completion request and translates the response.
func (c *OpenRouterClient) Call(ctx context.Context, req CallRequest) (*CallResult, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("llm call: model is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("llm call: at least one message is required")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	request := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
	if req.Temperature != nil {
		request.Temperature = float32(*req.Temperature)
	}

	resp, err := c.chat.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned for model %s", ErrMalformedResponse, req.Model)
	}

	choice := resp.Choices[0]
	return &CallResult{
		Model:     req.Model,
		Content:   choice.Message.Content,
		Reasoning: choice.Message.ReasoningContent,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
