package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/api/middleware"
	"github.com/adroid/pool-registry/internal/core/domain"
)

// currentUser returns the identity injected by the Auth middleware. Its
// absence means the route was mounted without authentication.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrMissingToken
	}
	return user, nil
}
