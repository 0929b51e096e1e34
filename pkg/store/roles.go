package store

import (
	"context"
	"fmt"
	"time"
)

// CustomRole is a user-defined council role.
type CustomRole struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Prompt      string    `json:"prompt"`
	CreatedAt   time.Time `json:"created_at"`
}

// CustomRoles returns all user-defined roles, newest first.
func (s *Store) CustomRoles(ctx context.Context) ([]CustomRole, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, icon, prompt, created_at
		FROM custom_roles
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing custom roles: %w", err)
	}
	defer rows.Close()

	var roles []CustomRole
	for rows.Next() {
		var r CustomRole
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Icon, &r.Prompt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning custom role: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// AddCustomRole stores a new role.
func (s *Store) AddCustomRole(ctx context.Context, role CustomRole) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_roles (id, name, description, icon, prompt, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		role.ID, role.Name, role.Description, role.Icon, role.Prompt, now())
	if err != nil {
		return fmt.Errorf("adding custom role %q: %w", role.ID, err)
	}
	return nil
}

// DeleteCustomRole removes a role by id. Unknown ids are not an error.
func (s *Store) DeleteCustomRole(ctx context.Context, roleID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM custom_roles WHERE id = ?`, roleID)
	if err != nil {
		return fmt.Errorf("deleting custom role %q: %w", roleID, err)
	}
	return nil
}
