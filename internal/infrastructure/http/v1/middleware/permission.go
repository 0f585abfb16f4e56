// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"orderflow/internal/core/apperror"
	appctx "orderflow/internal/core/context"
)

// requireUser aborts with 401 unless the request is authenticated.
// Returns the user and whether the caller is an admin; admins pass
// every permission check.
func requireUser(c *gin.Context) (*appctx.UserContext, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		_ = c.Error(apperror.NewUnauthorized("authentication required"))
		c.Abort()
		return nil, false
	}
	return user, user.IsAdmin
}

// grantedPermissions returns the permission codes the Auth middleware
// stored for this request.
func grantedPermissions(c *gin.Context) map[string]bool {
	perms, exists := c.Get("permissions")
	if !exists {
		return nil
	}
	list, ok := perms.([]string)
	if !ok {
		return nil
	}
	set := make(map[string]bool, len(list))
	for _, p := range list {
		set[p] = true
	}
	return set
}

// RequirePermission allows the request only when the user holds the
// given permission code.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, admin := requireUser(c)
		if user == nil {
			return
		}
		if admin || grantedPermissions(c)[permission] {
			c.Next()
			return
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_permission", permission),
		)
		c.Abort()
	}
}

// RequireAnyPermission allows the request when the user holds at least
// one of the given permission codes.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, admin := requireUser(c)
		if user == nil {
			return
		}
		if admin {
			c.Next()
			return
		}

		granted := grantedPermissions(c)
		for _, p := range permissions {
			if granted[p] {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_permissions", permissions),
		)
		c.Abort()
	}
}
