package dto

import (
	"orderflow/internal/core/id"
	"orderflow/internal/domain/auth"
)

// RegisterRequest for user registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ToAuthRequest maps to the domain registration request.
func (r RegisterRequest) ToAuthRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// LoginRequest for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials maps to domain credentials.
func (r LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Email: r.Email, Password: r.Password}
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token *auth.Token `json:"token"`
	User  *auth.User  `json:"user"`
}

// AssignRoleRequest assigns or revokes a role on a user.
type AssignRoleRequest struct {
	UserID   id.ID  `json:"userId" binding:"required"`
	RoleCode string `json:"roleCode" binding:"required"`
}

// CreateRoleRequest creates a custom role.
type CreateRoleRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UserListQuery filters the user list.
type UserListQuery struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"isActive"`
	RoleCode string `form:"roleCode"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// ToFilter maps to the domain user filter with defaults applied.
func (q UserListQuery) ToFilter() auth.UserFilter {
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return auth.UserFilter{
		Search:   q.Search,
		IsActive: q.IsActive,
		RoleCode: q.RoleCode,
		Limit:    limit,
		Offset:   offset,
	}
}
