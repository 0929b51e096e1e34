package config

import "time"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `yaml:"host"`

	// Port is the listen port.
	Port int `yaml:"port"`

	// CORSOrigins lists origins allowed by the CORS middleware and
	// accepted during the WebSocket handshake.
	CORSOrigins []string `yaml:"cors_origins"`
}

// DefaultServerConfig returns the built-in server defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:        "0.0.0.0",
		Port:        8347,
		CORSOrigins: []string{"http://localhost:3847"},
	}
}

// UpstreamConfig holds OpenRouter API settings.
type UpstreamConfig struct {
	// BaseURL is the OpenRouter API root, without trailing slash.
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// Referer and AppTitle are sent as attribution headers on every request.
	Referer  string `yaml:"referer"`
	AppTitle string `yaml:"app_title"`

	// RequestTimeout bounds chat completion requests.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CatalogTimeout bounds model catalog fetches.
	CatalogTimeout time.Duration `yaml:"catalog_timeout"`
}

// DefaultUpstreamConfig returns the built-in upstream defaults.
func DefaultUpstreamConfig() *UpstreamConfig {
	return &UpstreamConfig{
		BaseURL:        "https://openrouter.ai/api/v1",
		APIKeyEnv:      "OPENROUTER_API_KEY",
		Referer:        "https://github.com/curia-dev/curia",
		AppTitle:       "AI Council",
		RequestTimeout: 120 * time.Second,
		CatalogTimeout: 30 * time.Second,
	}
}

// BudgetConfig holds spend ceiling settings.
type BudgetConfig struct {
	// MaxBudget is the spend ceiling per conversation in USD.
	MaxBudget float64 `yaml:"max_budget"`
}

// DefaultBudgetConfig returns the built-in budget defaults.
func DefaultBudgetConfig() *BudgetConfig {
	return &BudgetConfig{
		MaxBudget: 10.0,
	}
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	// TTL is how long cached upstream responses stay valid.
	TTL time.Duration `yaml:"ttl"`

	// RedisURLEnv names the environment variable holding the Redis URL.
	// When the variable is unset the in-memory backend is used.
	RedisURLEnv string `yaml:"redis_url_env"`

	// WarmOnStart pre-populates the cache with common queries at startup.
	WarmOnStart bool `yaml:"warm_on_start"`
}

// DefaultCacheConfig returns the built-in cache defaults.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		TTL:         24 * time.Hour,
		RedisURLEnv: "REDIS_URL",
		WarmOnStart: false,
	}
}

// RateLimitConfig holds per-client limits.
type RateLimitConfig struct {
	// MaxRequests is the number of requests allowed per window.
	MaxRequests int `yaml:"max_requests"`

	// Window is the sliding request window.
	Window time.Duration `yaml:"window"`

	// MaxHourlyCost is the estimated spend allowed per client per hour in USD.
	MaxHourlyCost float64 `yaml:"max_hourly_cost"`

	// MaxConcurrentWS is the number of simultaneous WebSocket connections
	// allowed per client.
	MaxConcurrentWS int `yaml:"max_concurrent_ws"`
}

// DefaultRateLimitConfig returns the built-in rate limit defaults.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MaxRequests:     10,
		Window:          60 * time.Second,
		MaxHourlyCost:   5.0,
		MaxConcurrentWS: 3,
	}
}

// StoreConfig holds SQLite persistence settings.
type StoreConfig struct {
	// Path is the SQLite database file path. The parent directory is
	// created on startup when missing.
	Path string `yaml:"path"`
}

// DefaultStoreConfig returns the built-in store defaults.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path: "data/curia.db",
	}
}
