package auth_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/id"
	"orderflow/internal/domain/auth"
	"orderflow/internal/infrastructure/storage/postgres"
)

const roleCols = "id, code, name, description, is_system, created_at, updated_at"

// RoleRepo implements auth.RoleRepository.
type RoleRepo struct {
	txManager *postgres.TxManager
}

// NewRoleRepo creates a new role repository.
func NewRoleRepo(txManager *postgres.TxManager) *RoleRepo {
	return &RoleRepo{txManager: txManager}
}

var _ auth.RoleRepository = (*RoleRepo)(nil)

// Create inserts a new role.
func (r *RoleRepo) Create(ctx context.Context, role *auth.Role) error {
	query := `
		INSERT INTO roles (` + roleCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, query,
		role.ID, role.Code, role.Name,
		role.Description, role.IsSystem, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepo) getRole(ctx context.Context, where string, key any) (*auth.Role, error) {
	query := "SELECT " + roleCols + " FROM roles WHERE " + where + " = $1"

	var role auth.Role
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &role, query, key)
	if pgxscan.NotFound(err) {
		return nil, apperror.NewNotFound("role", key)
	}
	if err != nil {
		return nil, fmt.Errorf("query role: %w", err)
	}
	return &role, nil
}

// GetByID retrieves a role by id.
func (r *RoleRepo) GetByID(ctx context.Context, roleID id.ID) (*auth.Role, error) {
	return r.getRole(ctx, "id", roleID)
}

// GetByCode retrieves a role by code.
func (r *RoleRepo) GetByCode(ctx context.Context, code string) (*auth.Role, error) {
	return r.getRole(ctx, "code", code)
}

// Update saves the mutable role fields. Code and is_system never
// change after creation.
func (r *RoleRepo) Update(ctx context.Context, role *auth.Role) error {
	query := `
		UPDATE roles SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, query, role.ID, role.Name, role.Description); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// Delete removes a non-system role. System roles are filtered out by
// the WHERE clause, so the zero-rows case covers both missing and
// protected roles.
func (r *RoleRepo) Delete(ctx context.Context, roleID id.ID) error {
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM roles WHERE id = $1 AND is_system = false`, roleID)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewBusinessRule("CANNOT_DELETE_SYSTEM_ROLE", "Cannot delete system role")
	}
	return nil
}

// List retrieves all roles ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]auth.Role, error) {
	query := "SELECT " + roleCols + " FROM roles ORDER BY name"

	var roles []auth.Role
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &roles, query); err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	return roles, nil
}

// LoadPermissions retrieves the permissions granted to the role.
func (r *RoleRepo) LoadPermissions(ctx context.Context, roleID id.ID) ([]auth.Permission, error) {
	query := `
		SELECT p.id, p.code, p.name, p.description, p.resource, p.action, p.created_at
		FROM permissions p
		JOIN role_permissions rp ON p.id = rp.permission_id
		WHERE rp.role_id = $1
	`
	var permissions []auth.Permission
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &permissions, query, roleID); err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	return permissions, nil
}

// AssignPermission grants a permission to the role. Granting twice is
// a no-op.
func (r *RoleRepo) AssignPermission(ctx context.Context, roleID, permissionID id.ID) error {
	query := `
		INSERT INTO role_permissions (role_id, permission_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (role_id, permission_id) DO NOTHING
	`
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("assign permission: %w", err)
	}
	return nil
}

// RevokePermission removes a permission from the role.
func (r *RoleRepo) RevokePermission(ctx context.Context, roleID, permissionID id.ID) error {
	query := `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}
