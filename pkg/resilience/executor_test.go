package resilience

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/llm"
)

// scriptedClient returns canned outcomes per model and records call counts.
type scriptedClient struct {
	mu        sync.Mutex
	contents  map[string]string
	errs      map[string]error
	failFirst map[string]int
	calls     map[string]int
}

func (s *scriptedClient) Call(_ context.Context, req llm.CallRequest) (*llm.CallResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[req.Model]++

	if n := s.failFirst[req.Model]; n > 0 {
		s.failFirst[req.Model] = n - 1
		return nil, fmt.Errorf("transient failure from %s", req.Model)
	}
	if err := s.errs[req.Model]; err != nil {
		return nil, err
	}
	content, ok := s.contents[req.Model]
	if !ok {
		content = "a considered answer from " + req.Model
	}
	return &llm.CallResult{Model: req.Model, Content: content}, nil
}

func (s *scriptedClient) callCount(model string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[model]
}

func fastExecutor(client llm.Client, fallbacks []string) *Executor {
	return NewExecutor(client, fallbacks, ExecutorConfig{BaseDelay: time.Millisecond})
}

func userMessages() []llm.Message {
	return []llm.Message{llm.UserMessage("What is the capital of France?")}
}

func TestNewExecutorDefaults(t *testing.T) {
	e := NewExecutor(&scriptedClient{}, nil, ExecutorConfig{})
	assert.Equal(t, 3, e.quorum)
	assert.Equal(t, 2, e.retries)
	assert.Equal(t, time.Second, e.baseDelay)
	assert.Equal(t, 3, e.Quorum())
}

func TestBackoffSequenceDoubles(t *testing.T) {
	e := NewExecutor(&scriptedClient{}, nil, ExecutorConfig{BaseDelay: time.Second})
	bo := e.newBackOff()
	assert.Equal(t, time.Second, bo.NextBackOff())
	assert.Equal(t, 2*time.Second, bo.NextBackOff())
	assert.Equal(t, 4*time.Second, bo.NextBackOff())
}

func TestCallWithRetryFirstAttemptSucceeds(t *testing.T) {
	client := &scriptedClient{}
	e := fastExecutor(client, nil)

	result, err := e.CallWithRetry(context.Background(), llm.CallRequest{Model: "openai/gpt-4o", Messages: userMessages()})
	require.NoError(t, err)
	assert.Equal(t, "a considered answer from openai/gpt-4o", result.Content)
	assert.Equal(t, 1, client.callCount("openai/gpt-4o"))
}

func TestCallWithRetryRecoversAfterFailures(t *testing.T) {
	client := &scriptedClient{failFirst: map[string]int{"openai/gpt-4o": 2}}
	e := fastExecutor(client, nil)

	result, err := e.CallWithRetry(context.Background(), llm.CallRequest{Model: "openai/gpt-4o", Messages: userMessages()})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 3, client.callCount("openai/gpt-4o"))
}

func TestCallWithRetryExhaustsAttempts(t *testing.T) {
	client := &scriptedClient{errs: map[string]error{"openai/gpt-4o": errors.New("boom")}}
	e := fastExecutor(client, nil)

	result, err := e.CallWithRetry(context.Background(), llm.CallRequest{Model: "openai/gpt-4o", Messages: userMessages()})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "all 3 attempts failed for openai/gpt-4o")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 3, client.callCount("openai/gpt-4o"))
}

func TestCallWithRetryHonorsCancellation(t *testing.T) {
	client := &scriptedClient{errs: map[string]error{"openai/gpt-4o": errors.New("boom")}}
	e := NewExecutor(client, nil, ExecutorConfig{BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.CallWithRetry(ctx, llm.CallRequest{Model: "openai/gpt-4o", Messages: userMessages()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.callCount("openai/gpt-4o"))
}

func TestValidate(t *testing.T) {
	e := fastExecutor(&scriptedClient{}, nil)

	resp := func(content string) *llm.CallResult {
		return &llm.CallResult{Model: "m", Content: content}
	}

	tests := []struct {
		name   string
		result *llm.CallResult
		want   bool
	}{
		{"nil response", nil, false},
		{"empty content", resp(""), false},
		{"too short", resp("short"), false},
		{"whitespace padding does not count", resp("   padded    "), false},
		{"ten characters exactly passes", resp("0123456789"), true},
		{"error prefix", resp("Error: model overloaded, try again later"), false},
		{"uppercase error prefix", resp("ERROR: BAD"), false},
		{"failed to pattern", resp("failed to fetch the requested page"), false},
		{"unable to pattern", resp("I was unable to reach a conclusion on this topic"), false},
		{"rate limit pattern", resp("Rate limit reached for requests"), false},
		{"quota pattern", resp("The quota exceeded message appears here"), false},
		{"substantive answer", resp("Paris is the capital of France and its largest city."), true},
		{"pattern beyond first hundred chars", resp(strings.Repeat("a", 100) + " rate limit"), true},
		{"pattern split by the hundred char window", resp(strings.Repeat("a", 96) + "rate limit and then some"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Validate(tt.result))
		})
	}
}

func TestExecuteWithFallbackQuorumFromPrimaries(t *testing.T) {
	client := &scriptedClient{}
	e := fastExecutor(client, []string{"fallback/one", "fallback/two"})

	primaries := []string{"openai/gpt-4o", "anthropic/claude-3.5-sonnet", "google/gemini-1.5-pro"}
	result := e.ExecuteWithFallback(context.Background(), primaries, userMessages())

	require.Len(t, result, 3)
	for _, model := range primaries {
		assert.Contains(t, result, model)
		assert.Equal(t, 1, client.callCount(model))
	}
	assert.Zero(t, client.callCount("fallback/one"))
	assert.Zero(t, client.callCount("fallback/two"))
}

func TestExecuteWithFallbackSubstitutesFailedPrimaries(t *testing.T) {
	// All three primaries answer with error text, so validation rejects
	// them without burning retries. Two of three fallbacks recover.
	errorBody := "Error: upstream returned status 500 from provider"
	client := &scriptedClient{
		contents: map[string]string{
			"primary/one":   errorBody,
			"primary/two":   errorBody,
			"primary/three": errorBody,
		},
		errs: map[string]error{"fallback/three": errors.New("boom")},
	}
	fallbacks := []string{"fallback/one", "fallback/two", "fallback/three", "fallback/four"}
	e := fastExecutor(client, fallbacks)

	primaries := []string{"primary/one", "primary/two", "primary/three"}
	result := e.ExecuteWithFallback(context.Background(), primaries, userMessages())

	require.Len(t, result, 2)
	assert.Contains(t, result, "fallback/one")
	assert.Contains(t, result, "fallback/two")

	// Validation failures are terminal per attempt, not retried.
	assert.Equal(t, 1, client.callCount("primary/one"))
	assert.Equal(t, 1, client.callCount("primary/two"))
	assert.Equal(t, 1, client.callCount("primary/three"))

	// Only quorum-many fallbacks dispatch; the fourth stays unused.
	assert.Equal(t, 3, client.callCount("fallback/three"))
	assert.Zero(t, client.callCount("fallback/four"))
}

func TestExecuteWithFallbackCapsAtNeeded(t *testing.T) {
	client := &scriptedClient{
		errs: map[string]error{
			"primary/three": errors.New("boom"),
			"primary/four":  errors.New("boom"),
		},
	}
	e := fastExecutor(client, []string{"fallback/one", "fallback/two"})

	primaries := []string{"primary/one", "primary/two", "primary/three", "primary/four"}
	result := e.ExecuteWithFallback(context.Background(), primaries, userMessages())

	require.Len(t, result, 3)
	assert.Contains(t, result, "primary/one")
	assert.Contains(t, result, "primary/two")
	assert.Contains(t, result, "fallback/one")
	assert.Zero(t, client.callCount("fallback/two"))
}

func TestExecuteWithFallbackSkipsPrimariesInFallbackPool(t *testing.T) {
	client := &scriptedClient{errs: map[string]error{"primary/two": errors.New("boom")}}
	e := fastExecutor(client, []string{"primary/one", "primary/two", "fallback/one"})

	result := e.ExecuteWithFallback(context.Background(), []string{"primary/one", "primary/two"}, userMessages())

	require.Len(t, result, 2)
	assert.Contains(t, result, "primary/one")
	assert.Contains(t, result, "fallback/one")
	// The failed primary is never re-dispatched as its own fallback.
	assert.Equal(t, 3, client.callCount("primary/two"))
}

func TestExecuteWithFallbackNeedsFailuresToDispatch(t *testing.T) {
	// Two primaries below quorum but none failed: fallbacks substitute
	// for failures, they do not pad the council.
	client := &scriptedClient{}
	e := fastExecutor(client, []string{"fallback/one"})

	result := e.ExecuteWithFallback(context.Background(), []string{"primary/one", "primary/two"}, userMessages())

	require.Len(t, result, 2)
	assert.Zero(t, client.callCount("fallback/one"))
}
