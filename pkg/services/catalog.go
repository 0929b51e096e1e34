// Package services holds the read/write logic behind the HTTP API: catalog
// refresh, conversation history, execution logs, custom roles, settings,
// and favourites. Services validate input, talk to the store, and keep
// transport concerns out.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/llm"
	"github.com/curia-dev/curia/pkg/store"
)

// catalogMaxAge is how long cached catalog rows stay fresh.
const catalogMaxAge = 24 * time.Hour

// catalogProviders are the upstream id prefixes listed in the builder palette.
var catalogProviders = []string{"anthropic/", "openai/", "google/", "deepseek/", "meta-llama/", "nvidia/"}

// ModelFetcher lists the models advertised by the upstream endpoint.
type ModelFetcher interface {
	Models(ctx context.Context) ([]llm.CatalogModel, error)
}

// CatalogEntry is one model served to the builder palette. Pricing is in
// USD per million tokens.
type CatalogEntry struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Provider      string               `json:"provider"`
	Tier          config.ModelTier     `json:"tier"`
	ContextLength int                  `json:"context_length"`
	Pricing       *config.ModelPricing `json:"pricing,omitempty"`
	Favourite     bool                 `json:"favourite"`
}

// Catalog is a model listing together with its cache provenance. Notice
// carries a human-readable reason when the listing is not fresh.
type Catalog struct {
	Models   []CatalogEntry `json:"models"`
	Cached   bool           `json:"cached"`
	CacheAge string         `json:"cache_age,omitempty"`
	Notice   string         `json:"error,omitempty"`
}

// CatalogService serves the model catalog, refreshing it from upstream when
// the cached copy goes stale.
type CatalogService struct {
	store   *store.Store
	fetcher ModelFetcher
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(st *store.Store, fetcher ModelFetcher) *CatalogService {
	return &CatalogService{store: st, fetcher: fetcher}
}

// Models returns the model catalog. Cached rows younger than 24 hours are
// served as-is unless refresh forces an upstream fetch. When the fetch
// fails the service falls back to stale cache rows, then to the built-in
// catalog.
func (s *CatalogService) Models(ctx context.Context, refresh bool) (*Catalog, error) {
	age, haveCache, err := s.store.CatalogAge(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog age: %w", err)
	}

	if !refresh && haveCache && time.Since(age) <= catalogMaxAge {
		rows, err := s.store.Catalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list cached models: %w", err)
		}
		if len(rows) > 0 {
			slog.Info("Serving cached model catalog", "models", len(rows))
			return s.fromCache(ctx, rows, age, "")
		}
	}

	slog.Info("Fetching model catalog from upstream")
	raw, err := s.fetcher.Models(ctx)
	if err != nil || len(raw) == 0 {
		if err != nil {
			slog.Error("Catalog fetch failed", "error", err)
		}
		rows, listErr := s.store.Catalog(ctx)
		if listErr == nil && len(rows) > 0 {
			return s.fromCache(ctx, rows, age, "Failed to fetch fresh models")
		}
		return s.fromBuiltin(ctx)
	}

	entries := transformCatalog(raw)
	if err := s.store.ReplaceCatalog(ctx, toCachedModels(entries)); err != nil {
		return nil, fmt.Errorf("failed to cache models: %w", err)
	}
	slog.Info("Cached model catalog", "models", len(entries))

	if err := s.markFavourites(ctx, entries); err != nil {
		return nil, err
	}
	return &Catalog{Models: entries, Cached: false}, nil
}

func (s *CatalogService) fromCache(ctx context.Context, rows []store.CachedModel, age time.Time, notice string) (*Catalog, error) {
	entries := make([]CatalogEntry, 0, len(rows))
	for _, m := range rows {
		entry := CatalogEntry{
			ID:            m.ID,
			Name:          m.Name,
			Provider:      m.Provider,
			Tier:          config.ModelTier(m.Tier),
			ContextLength: m.ContextLength,
		}
		var pricing config.ModelPricing
		if err := json.Unmarshal(m.Pricing, &pricing); err == nil {
			entry.Pricing = &pricing
		}
		entries = append(entries, entry)
	}
	if err := s.markFavourites(ctx, entries); err != nil {
		return nil, err
	}

	catalog := &Catalog{Models: entries, Cached: true, Notice: notice}
	if !age.IsZero() {
		catalog.CacheAge = age.UTC().Format(time.RFC3339)
	}
	return catalog, nil
}

func (s *CatalogService) fromBuiltin(ctx context.Context) (*Catalog, error) {
	static := config.GetBuiltinConfig().StaticCatalog
	entries := make([]CatalogEntry, 0, len(static))
	for _, m := range static {
		entries = append(entries, CatalogEntry{
			ID:            m.ID,
			Name:          m.Name,
			Provider:      m.Provider,
			Tier:          m.Tier,
			ContextLength: m.ContextLength,
			Pricing:       m.Pricing,
		})
	}
	if err := s.markFavourites(ctx, entries); err != nil {
		return nil, err
	}
	slog.Warn("Serving built-in model catalog")
	return &Catalog{Models: entries, Cached: false, Notice: "Using static fallback"}, nil
}

func (s *CatalogService) markFavourites(ctx context.Context, entries []CatalogEntry) error {
	ids, err := s.store.Favourites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list favourites: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	favourites := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		favourites[id] = struct{}{}
	}
	for i := range entries {
		_, entries[i].Favourite = favourites[entries[i].ID]
	}
	return nil
}

// transformCatalog filters the upstream listing to the providers worth
// showing, normalizes prices to per-million-token USD, derives the tier,
// and sorts by provider then name.
func transformCatalog(raw []llm.CatalogModel) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(raw))
	for _, m := range raw {
		if !listedProvider(m.ID) {
			continue
		}
		pricing := &config.ModelPricing{
			Input:  m.Pricing.PromptPerToken() * 1_000_000,
			Output: m.Pricing.CompletionPerToken() * 1_000_000,
		}
		name := m.Name
		if name == "" {
			name = m.ID
		}
		entries = append(entries, CatalogEntry{
			ID:            m.ID,
			Name:          name,
			Provider:      providerOf(m.ID),
			Tier:          config.TierForCost(pricing.AvgCostPer1K()),
			ContextLength: m.ContextLength,
			Pricing:       pricing,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Provider != entries[j].Provider {
			return entries[i].Provider < entries[j].Provider
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func listedProvider(id string) bool {
	for _, prefix := range catalogProviders {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// providerOf extracts the provider from a model id. The meta-llama prefix
// is displayed as meta.
func providerOf(id string) string {
	provider, _, found := strings.Cut(id, "/")
	if !found {
		return "other"
	}
	if provider == "meta-llama" {
		return "meta"
	}
	return provider
}

func toCachedModels(entries []CatalogEntry) []store.CachedModel {
	models := make([]store.CachedModel, 0, len(entries))
	for _, e := range entries {
		pricing, _ := json.Marshal(e.Pricing)
		models = append(models, store.CachedModel{
			ID:            e.ID,
			Name:          e.Name,
			Provider:      e.Provider,
			Tier:          string(e.Tier),
			ContextLength: e.ContextLength,
			Pricing:       pricing,
		})
	}
	return models
}
