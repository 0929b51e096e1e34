package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type memoryEntry struct {
	data   []byte
	expiry time.Time
}

// MemoryBackend is a process-local TTL store used when Redis is not
// configured or unreachable.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Get implements Backend. Expired entries are removed on access.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(entry.expiry) {
		delete(b.entries, key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{data: value, expiry: b.now().Add(ttl)}
	return nil
}

// Sweep removes all expired entries.
func (b *MemoryBackend) Sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	removed := 0
	for key, entry := range b.entries {
		if !now.Before(entry.expiry) {
			delete(b.entries, key)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("Cleared expired cache entries", "count", removed)
	}
}
