package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/core/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
	got   string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	s.got = token
	if s.err != nil {
		return nil, s.err
	}
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	user, ok := s.users[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authn := &stubAuthenticator{users: map[string]*domain.User{
		"good": {ID: "u1", Username: "alice", Role: domain.RoleAdmin},
	}}
	c, rec := newAuthContext("Bearer good")

	called := false
	handler := Auth(authn)(func(c echo.Context) error {
		called = true
		user := CurrentUser(c)
		if user == nil || user.ID != "u1" || user.Role != domain.RoleAdmin {
			t.Fatalf("user not set: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	authn := &stubAuthenticator{users: map[string]*domain.User{"good": {ID: "u1", Role: domain.RoleMember}}}
	c, _ := newAuthContext("bearer good")

	err := Auth(authn)(func(c echo.Context) error { return nil })(c)
	if err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingToken},
		{"non-bearer scheme", "Token abc", domain.ErrMissingToken},
		{"empty bearer", "Bearer ", domain.ErrMissingToken},
		{"unknown token", "Bearer not-a-token", domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := &stubAuthenticator{users: map[string]*domain.User{}}
			c, _ := newAuthContext(tt.header)

			err := Auth(authn)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})(c)

			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected unauthenticated kind, got %v", err)
			}
		})
	}
}

func TestAuthMiddleware_StoreFailurePassesThrough(t *testing.T) {
	boom := errors.New("store down")
	c, _ := newAuthContext("Bearer good")

	err := Auth(&stubAuthenticator{err: boom})(func(c echo.Context) error { return nil })(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
