package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/api/middleware"
	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" || in.FullName != "Alice Liddell" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", Username: in.Username, Email: in.Email, FullName: in.FullName, Role: domain.RoleAdmin},
				Token: "token123",
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/register",
		`{"username":" alice ","password":"secret1","email":"Alice@Example.com","fullName":"Alice Liddell"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success=true")
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data in response")
	}
	if data["username"] != "alice" || data["role"] != "admin" || data["token"] != "token123" {
		t.Fatalf("unexpected data payload: %+v", data)
	}
	if _, leaked := data["password"]; leaked {
		t.Fatalf("password must not be returned")
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/register",
		`{"username":"bob","password":"secret1","email":"bob@example.com","fullName":"Bob B"}`)

	if err := handler.Register(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/register",
		`{"username":"a-b","password":"123","email":"nope","fullName":"X"}`)

	err := handler.Register(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"username", "email", "password", "fullName"} {
		if !fields[want] {
			t.Errorf("expected %s to be rejected, got %+v", want, ve.Fields)
		}
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/register", "not-json")

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{User: &domain.User{ID: "u1", Username: "alice", Role: domain.RoleMember}, Token: "token123"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data, _ := decodeResponse(t, rec)["data"].(map[string]any)
	if data["token"] != "token123" || data["role"] != "user" {
		t.Fatalf("unexpected data payload: %+v", data)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)

	if err := handler.Login(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com"}`)

	if err := handler.Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(http.MethodGet, "/auth/me", "")
	c.Set(middleware.UserKey, &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data, _ := decodeResponse(t, rec)["data"].(map[string]any)
	if data["id"] != "u1" || data["username"] != "alice" {
		t.Fatalf("unexpected data payload: %+v", data)
	}
	if _, ok := data["token"]; ok {
		t.Fatalf("me must not return a token")
	}
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})
	c, _ := newJSONContext(http.MethodGet, "/auth/me", "")

	if err := handler.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
