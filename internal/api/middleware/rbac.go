package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Authorize(CurrentUser(c), allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Authorize reports whether user may act under one of the allowed roles.
// Unknown roles are never allowed.
func Authorize(user *domain.User, allowed ...domain.Role) error {
	if user == nil {
		return domain.ErrMissingToken
	}
	if !user.Role.Valid() {
		return domain.ErrInsufficientRole
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return domain.ErrInsufficientRole
}
