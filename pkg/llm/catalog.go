package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/curia-dev/curia/pkg/config"
)

// CatalogPricing holds the per-token prices as reported upstream. OpenRouter
// serves them as decimal strings, sometimes blank.
type CatalogPricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// PromptPerToken parses the prompt price, treating blanks and junk as zero.
func (p CatalogPricing) PromptPerToken() float64 {
	return parsePrice(p.Prompt)
}

// CompletionPerToken parses the completion price, treating blanks and junk as zero.
func (p CatalogPricing) CompletionPerToken() float64 {
	return parsePrice(p.Completion)
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// CatalogModel is one entry from the upstream model listing.
type CatalogModel struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ContextLength int            `json:"context_length"`
	Pricing       CatalogPricing `json:"pricing"`
}

// CatalogClient fetches the upstream model catalog.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogClient builds a catalog client for the configured endpoint.
func NewCatalogClient(cfg *config.UpstreamConfig) *CatalogClient {
	timeout := cfg.CatalogTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CatalogClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Models fetches all models advertised by the upstream endpoint.
func (c *CatalogClient) Models(ctx context.Context) ([]CatalogModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching model catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching model catalog: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data []CatalogModel `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding model catalog: %w", err)
	}
	return payload.Data, nil
}
