package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/apperror"
	appctx "orderflow/internal/core/context"
)

// JWTValidator validates an access token and returns the user it
// identifies.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// bearerToken extracts the token from an "Authorization: Bearer x"
// header. Returns "" when the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return token
}

// attachUser binds the authenticated user to the request context and
// mirrors the id and permission claims into the gin context, where the
// permission middleware reads them.
func attachUser(c *gin.Context, user *appctx.UserContext) {
	ctx := appctx.WithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
	c.Set("user_id", user.UserID)
	c.Set("permissions", user.Permissions)
}

// Auth requires a valid bearer token and populates the user context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			_ = c.Error(apperror.NewUnauthorized("missing or malformed authorization header"))
			c.Abort()
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		attachUser(c, user)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid bearer token is
// present, but lets anonymous requests through.
func OptionalAuth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := validator.ValidateToken(token); err == nil && user != nil {
				attachUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireRole allows the request only when the user holds one of the
// given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, required := range roles {
			for _, role := range user.Roles {
				if role == required {
					c.Next()
					return
				}
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}
