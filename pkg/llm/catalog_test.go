package llm_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/llm"
)

func catalogConfig(baseURL string) *config.UpstreamConfig {
	return &config.UpstreamConfig{
		BaseURL:        baseURL,
		CatalogTimeout: 5 * time.Second,
	}
}

func TestCatalogModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data": [
				{
					"id": "anthropic/claude-3.5-sonnet",
					"name": "Claude 3.5 Sonnet",
					"context_length": 200000,
					"pricing": {"prompt": "0.000003", "completion": "0.000015"}
				},
				{
					"id": "openai/gpt-4o-mini",
					"name": "GPT-4o Mini",
					"context_length": 128000,
					"pricing": {"prompt": "", "completion": "not-a-number"}
				}
			]
		}`)
	}))
	defer server.Close()

	client := llm.NewCatalogClient(catalogConfig(server.URL))
	models, err := client.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	sonnet := models[0]
	assert.Equal(t, "anthropic/claude-3.5-sonnet", sonnet.ID)
	assert.Equal(t, "Claude 3.5 Sonnet", sonnet.Name)
	assert.Equal(t, 200000, sonnet.ContextLength)
	assert.InDelta(t, 0.000003, sonnet.Pricing.PromptPerToken(), 1e-12)
	assert.InDelta(t, 0.000015, sonnet.Pricing.CompletionPerToken(), 1e-12)

	// Blank and unparseable prices fall back to zero.
	mini := models[1]
	assert.Zero(t, mini.Pricing.PromptPerToken())
	assert.Zero(t, mini.Pricing.CompletionPerToken())
}

func TestCatalogModelsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := llm.NewCatalogClient(catalogConfig(server.URL))
	_, err := client.Models(context.Background())
	assert.ErrorContains(t, err, "unexpected status 503")
}

func TestCatalogModelsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [`)
	}))
	defer server.Close()

	client := llm.NewCatalogClient(catalogConfig(server.URL))
	_, err := client.Models(context.Background())
	assert.ErrorContains(t, err, "decoding model catalog")
}

func TestCatalogModelsRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := llm.NewCatalogClient(catalogConfig(server.URL))
	_, err := client.Models(ctx)
	assert.Error(t, err)
}
