package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	service := NewSettingsService(st)

	t.Run("round-trips mixed value types", func(t *testing.T) {
		require.NoError(t, service.Upsert(ctx, map[string]any{
			"defaultModel":       "anthropic/claude-3.5-sonnet",
			"defaultTemperature": 0.7,
			"autoSave":           true,
		}))

		settings, err := service.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, "anthropic/claude-3.5-sonnet", settings["defaultModel"])
		assert.Equal(t, 0.7, settings["defaultTemperature"])
		assert.Equal(t, true, settings["autoSave"])
	})

	t.Run("updates replace previous values", func(t *testing.T) {
		require.NoError(t, service.Upsert(ctx, map[string]any{"theme": "light"}))
		require.NoError(t, service.Upsert(ctx, map[string]any{"theme": "dark"}))

		settings, err := service.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, "dark", settings["theme"])
	})

	t.Run("strings that parse as JSON decode on the way out", func(t *testing.T) {
		// Strings are stored raw, so a numeric-looking one reads back as
		// a number.
		require.NoError(t, service.Upsert(ctx, map[string]any{"legacy": "42"}))

		settings, err := service.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, float64(42), settings["legacy"])
	})

	t.Run("rejects an empty map", func(t *testing.T) {
		err := service.Upsert(ctx, nil)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("rejects a blank key", func(t *testing.T) {
		err := service.Upsert(ctx, map[string]any{"": "x"})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}
