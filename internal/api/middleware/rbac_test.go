package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(UserKey, &domain.User{ID: "1", Role: domain.RoleAdmin})

	called := false
	mw := RBAC(domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(UserKey, &domain.User{ID: "2", Role: domain.RoleMember})

	mw := RBAC(domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	admin := &domain.User{Role: domain.RoleAdmin}
	member := &domain.User{Role: domain.RoleMember}
	unknown := &domain.User{Role: domain.Role("superuser")}

	tests := []struct {
		name    string
		user    *domain.User
		allowed []domain.Role
		want    error
	}{
		{"no identity", nil, []domain.Role{domain.RoleAdmin}, domain.ErrUnauthenticated},
		{"admin allowed", admin, []domain.Role{domain.RoleAdmin}, nil},
		{"member in list", member, []domain.Role{domain.RoleAdmin, domain.RoleMember}, nil},
		{"member denied", member, []domain.Role{domain.RoleAdmin}, domain.ErrForbidden},
		{"unknown role denied", unknown, []domain.Role{domain.Role("superuser")}, domain.ErrForbidden},
		{"empty allow-list", admin, nil, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.user, tt.allowed...)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
