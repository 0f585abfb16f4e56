// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"orderflow/internal/core/apperror"
	"orderflow/internal/domain/auth"
	"orderflow/internal/infrastructure/storage/postgres"
)

const permissionCols = "id, code, name, description, resource, action"

// PermissionRepo implements auth.PermissionRepository. Permissions are
// seeded by migrations; the repo only reads.
type PermissionRepo struct {
	txManager *postgres.TxManager
}

// NewPermissionRepo creates a new permission repository.
func NewPermissionRepo(txManager *postgres.TxManager) *PermissionRepo {
	return &PermissionRepo{txManager: txManager}
}

var _ auth.PermissionRepository = (*PermissionRepo)(nil)

// GetByCode retrieves a permission by code.
func (r *PermissionRepo) GetByCode(ctx context.Context, code string) (*auth.Permission, error) {
	query := "SELECT " + permissionCols + " FROM permissions WHERE code = $1"

	var perm auth.Permission
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &perm, query, code)
	if pgxscan.NotFound(err) {
		return nil, apperror.NewNotFound("permission", code)
	}
	if err != nil {
		return nil, fmt.Errorf("query permission: %w", err)
	}
	return &perm, nil
}

// List retrieves all permissions ordered by resource and action.
func (r *PermissionRepo) List(ctx context.Context) ([]auth.Permission, error) {
	query := "SELECT " + permissionCols + " FROM permissions ORDER BY resource, action"

	var permissions []auth.Permission
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &permissions, query); err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	return permissions, nil
}

// ListByResource retrieves the permissions of one resource.
func (r *PermissionRepo) ListByResource(ctx context.Context, resource string) ([]auth.Permission, error) {
	query := "SELECT " + permissionCols + " FROM permissions WHERE resource = $1 ORDER BY action"

	var permissions []auth.Permission
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &permissions, query, resource); err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	return permissions, nil
}
