package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/llm"
)

type fakeFetcher struct {
	models []llm.CatalogModel
	err    error
	calls  int
}

func (f *fakeFetcher) Models(_ context.Context) ([]llm.CatalogModel, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.models, nil
}

// upstreamListing mimics an OpenRouter /models payload with per-token
// prices and one provider outside the palette.
func upstreamListing() []llm.CatalogModel {
	return []llm.CatalogModel{
		{ID: "meta-llama/llama-3.1-70b-instruct", Name: "Llama 3.1 70B", ContextLength: 131072,
			Pricing: llm.CatalogPricing{Prompt: "0.00000052", Completion: "0.00000075"}},
		{ID: "anthropic/claude-3-opus", Name: "Claude 3 Opus", ContextLength: 200000,
			Pricing: llm.CatalogPricing{Prompt: "0.000015", Completion: "0.000075"}},
		{ID: "mistralai/mistral-large", Name: "Mistral Large", ContextLength: 32000,
			Pricing: llm.CatalogPricing{Prompt: "0.000002", Completion: "0.000006"}},
		{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", ContextLength: 200000,
			Pricing: llm.CatalogPricing{Prompt: "0.000003", Completion: "0.000015"}},
	}
}

func TestCatalogService_Models(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches, filters, and caches fresh models", func(t *testing.T) {
		st := newTestStore(t)
		fetcher := &fakeFetcher{models: upstreamListing()}
		service := NewCatalogService(st, fetcher)

		catalog, err := service.Models(ctx, false)
		require.NoError(t, err)
		assert.False(t, catalog.Cached)
		assert.Empty(t, catalog.Notice)
		require.Len(t, catalog.Models, 3) // mistralai is not in the palette

		// Sorted by provider then name; meta-llama displays as meta.
		assert.Equal(t, "anthropic/claude-3-opus", catalog.Models[0].ID)
		assert.Equal(t, "anthropic/claude-3.5-sonnet", catalog.Models[1].ID)
		assert.Equal(t, "meta-llama/llama-3.1-70b-instruct", catalog.Models[2].ID)
		assert.Equal(t, "meta", catalog.Models[2].Provider)

		// Prices normalized to per-million USD, tier derived from the blend.
		opus := catalog.Models[0]
		require.NotNil(t, opus.Pricing)
		assert.Equal(t, 15.0, opus.Pricing.Input)
		assert.Equal(t, 75.0, opus.Pricing.Output)
		assert.Equal(t, config.ModelTierPremium, opus.Tier)
		assert.Equal(t, config.ModelTierStandard, catalog.Models[1].Tier)
		assert.Equal(t, config.ModelTierBudget, catalog.Models[2].Tier)

		rows, err := st.Catalog(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("serves cached rows while fresh", func(t *testing.T) {
		st := newTestStore(t)
		fetcher := &fakeFetcher{models: upstreamListing()}
		service := NewCatalogService(st, fetcher)

		_, err := service.Models(ctx, false)
		require.NoError(t, err)

		catalog, err := service.Models(ctx, false)
		require.NoError(t, err)
		assert.True(t, catalog.Cached)
		assert.NotEmpty(t, catalog.CacheAge)
		assert.Len(t, catalog.Models, 3)
		assert.Equal(t, 1, fetcher.calls)

		sonnet := catalog.Models[1]
		require.NotNil(t, sonnet.Pricing)
		assert.Equal(t, 3.0, sonnet.Pricing.Input)
		assert.Equal(t, 15.0, sonnet.Pricing.Output)
	})

	t.Run("refresh forces an upstream fetch", func(t *testing.T) {
		st := newTestStore(t)
		fetcher := &fakeFetcher{models: upstreamListing()}
		service := NewCatalogService(st, fetcher)

		_, err := service.Models(ctx, false)
		require.NoError(t, err)
		catalog, err := service.Models(ctx, true)
		require.NoError(t, err)
		assert.False(t, catalog.Cached)
		assert.Equal(t, 2, fetcher.calls)
	})

	t.Run("falls back to stale cache when the fetch fails", func(t *testing.T) {
		st := newTestStore(t)
		fetcher := &fakeFetcher{models: upstreamListing()}
		service := NewCatalogService(st, fetcher)

		_, err := service.Models(ctx, false)
		require.NoError(t, err)

		fetcher.err = errors.New("upstream unreachable")
		catalog, err := service.Models(ctx, true)
		require.NoError(t, err)
		assert.True(t, catalog.Cached)
		assert.Equal(t, "Failed to fetch fresh models", catalog.Notice)
		assert.Len(t, catalog.Models, 3)
	})

	t.Run("falls back to the built-in catalog when nothing is cached", func(t *testing.T) {
		st := newTestStore(t)
		fetcher := &fakeFetcher{err: errors.New("upstream unreachable")}
		service := NewCatalogService(st, fetcher)

		catalog, err := service.Models(ctx, false)
		require.NoError(t, err)
		assert.False(t, catalog.Cached)
		assert.Equal(t, "Using static fallback", catalog.Notice)
		assert.Len(t, catalog.Models, len(config.GetBuiltinConfig().StaticCatalog))
	})

	t.Run("marks favourite models", func(t *testing.T) {
		st := newTestStore(t)
		require.NoError(t, st.AddFavourite(ctx, "anthropic/claude-3.5-sonnet"))
		fetcher := &fakeFetcher{models: upstreamListing()}
		service := NewCatalogService(st, fetcher)

		catalog, err := service.Models(ctx, false)
		require.NoError(t, err)
		var marked []string
		for _, m := range catalog.Models {
			if m.Favourite {
				marked = append(marked, m.ID)
			}
		}
		assert.Equal(t, []string{"anthropic/claude-3.5-sonnet"}, marked)
	})

	t.Run("blank names fall back to the id", func(t *testing.T) {
		st := newTestStore(t)
		fetcher := &fakeFetcher{models: []llm.CatalogModel{
			{ID: "openai/gpt-4o-mini", Pricing: llm.CatalogPricing{Prompt: "0.00000015", Completion: "0.0000006"}},
		}}
		service := NewCatalogService(st, fetcher)

		catalog, err := service.Models(ctx, false)
		require.NoError(t, err)
		require.Len(t, catalog.Models, 1)
		assert.Equal(t, "openai/gpt-4o-mini", catalog.Models[0].Name)
	})
}

func TestProviderOf(t *testing.T) {
	assert.Equal(t, "anthropic", providerOf("anthropic/claude-3-opus"))
	assert.Equal(t, "meta", providerOf("meta-llama/llama-3.1-8b-instruct"))
	assert.Equal(t, "other", providerOf("local-model"))
}
