package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/store"
)

// newTestStore opens a store backed by a throwaway database file.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), &config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "curia.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// builtinRoleRegistry builds a registry over the built-in role palette.
func builtinRoleRegistry() *config.RoleRegistry {
	builtin := config.GetBuiltinConfig()
	roles := make(map[string]*config.RoleConfig, len(builtin.Roles))
	for id := range builtin.Roles {
		role := builtin.Roles[id]
		roles[id] = &role
	}
	return config.NewRoleRegistry(roles, builtin.RoleOrder)
}
