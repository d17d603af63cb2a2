package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// UserKey is the echo.Context key holding the authenticated *domain.User.
const UserKey = "user"

// Authenticator resolves a bearer token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth verifies the bearer token and injects the freshly loaded user into the
// context. A missing or non-bearer Authorization header is treated as no token.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := authn.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user set by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
