package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/curia-dev/curia/pkg/store"
)

// SettingsService persists builder preferences. Non-string values are
// JSON-encoded on write and decoded on read; plain strings round-trip
// untouched.
type SettingsService struct {
	store *store.Store
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{store: st}
}

// All returns every stored setting with values decoded.
func (s *SettingsService) All(ctx context.Context) (map[string]any, error) {
	stored, err := s.store.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	settings := make(map[string]any, len(stored))
	for key, raw := range stored {
		settings[key] = decodeSetting(raw)
	}
	return settings, nil
}

// Upsert stores every key/value pair in the given map.
func (s *SettingsService) Upsert(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return NewValidationError("settings", "required")
	}

	for key, value := range values {
		if key == "" {
			return NewValidationError("key", "required")
		}
		encoded, err := encodeSetting(value)
		if err != nil {
			return err
		}
		if err := s.store.SetSetting(ctx, key, encoded); err != nil {
			return fmt.Errorf("failed to write setting: %w", err)
		}
	}
	return nil
}

// decodeSetting prefers the JSON reading of a stored value and falls back
// to the raw string.
func decodeSetting(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}

func encodeSetting(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode setting: %w", err)
	}
	return string(encoded), nil
}
