package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/store"
)

// defaultRoleIcon decorates custom roles created without one.
const defaultRoleIcon = "🎭"

// RoleInput carries the caller-supplied fields of a custom role.
type RoleInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Prompt      string `json:"prompt"`
}

// RoleService serves the merged role palette and manages custom roles.
type RoleService struct {
	store    *store.Store
	registry *config.RoleRegistry
}

// NewRoleService creates a new RoleService
func NewRoleService(st *store.Store, registry *config.RoleRegistry) *RoleService {
	return &RoleService{store: st, registry: registry}
}

// List returns built-in roles in palette order followed by custom roles,
// newest custom role first.
func (s *RoleService) List(ctx context.Context) ([]config.RoleConfig, error) {
	builtin := s.registry.All()
	roles := make([]config.RoleConfig, 0, len(builtin))
	for _, r := range builtin {
		roles = append(roles, *r)
	}

	custom, err := s.store.CustomRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}
	for _, r := range custom {
		roles = append(roles, config.RoleConfig{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Icon:        r.Icon,
			Prompt:      r.Prompt,
		})
	}
	return roles, nil
}

// Create stores a custom role and returns its id, minting a custom_
// prefixed id when the caller supplies none.
func (s *RoleService) Create(ctx context.Context, input RoleInput) (string, error) {
	if input.Name == "" {
		return "", NewValidationError("name", "required")
	}
	if input.Prompt == "" {
		return "", NewValidationError("prompt", "required")
	}

	id := input.ID
	if id == "" {
		u := uuid.New()
		id = fmt.Sprintf("custom_%x", u[:4])
	}
	icon := input.Icon
	if icon == "" {
		icon = defaultRoleIcon
	}

	if err := s.store.AddCustomRole(ctx, store.CustomRole{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Icon:        icon,
		Prompt:      input.Prompt,
	}); err != nil {
		return "", fmt.Errorf("failed to create role: %w", err)
	}
	slog.Info("Created custom role", "id", id, "name", input.Name)
	return id, nil
}

// Delete removes a custom role. Built-in roles cannot be deleted; deleting
// an unknown custom role succeeds quietly.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("id", "required")
	}
	if s.registry.Has(id) {
		return ErrBuiltinRole
	}
	if err := s.store.DeleteCustomRole(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	slog.Info("Deleted custom role", "id", id)
	return nil
}
