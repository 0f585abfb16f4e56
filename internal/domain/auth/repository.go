package auth

import (
	"context"

	"orderflow/internal/core/id"
)

// UserRepository defines user storage operations. Delete is a soft
// delete; LoadPermissions flattens the codes across all of the user's
// roles.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID id.ID) error
	List(ctx context.Context, filter UserFilter) ([]User, int, error)
	LoadRoles(ctx context.Context, userID id.ID) ([]Role, error)
	LoadPermissions(ctx context.Context, userID id.ID) ([]string, error)
	AssignRole(ctx context.Context, userID, roleID id.ID, grantedBy id.ID) error
	RevokeRole(ctx context.Context, userID, roleID id.ID) error

	// Exists checks whether the email is already registered.
	Exists(ctx context.Context, email string) (bool, error)
}

// RoleRepository defines role storage operations. Delete refuses
// system roles.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, roleID id.ID) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, roleID id.ID) error
	List(ctx context.Context) ([]Role, error)
	LoadPermissions(ctx context.Context, roleID id.ID) ([]Permission, error)
	AssignPermission(ctx context.Context, roleID, permissionID id.ID) error
	RevokePermission(ctx context.Context, roleID, permissionID id.ID) error
}

// PermissionRepository defines permission storage operations. The
// permission set is seeded by migrations and read-only at runtime.
type PermissionRepository interface {
	GetByCode(ctx context.Context, code string) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	ListByResource(ctx context.Context, resource string) ([]Permission, error)
}

// UserFilter for listing users.
type UserFilter struct {
	Search   string
	IsActive *bool
	RoleCode string
	Limit    int
	Offset   int
}
