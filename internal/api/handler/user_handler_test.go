package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

type stubUserService struct {
	createFn func(ctx context.Context, in ports.CreateMemberInput) (*domain.User, error)
}

func (s *stubUserService) CreateMember(ctx context.Context, in ports.CreateMemberInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUserHandler_Create(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateMemberInput) (*domain.User, error) {
			if in.Email != "jane.doe+test@x.com" || in.Username != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u2", Username: "jane_doe_test", Email: in.Email, FullName: in.FullName, Role: domain.RoleMember}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/users", `{"email":"Jane.Doe+test@x.com","password":"secret1","fullName":"Jane Doe"}`)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data, _ := decodeResponse(t, rec)["data"].(map[string]any)
	if data["username"] != "jane_doe_test" || data["role"] != "user" {
		t.Fatalf("unexpected data payload: %+v", data)
	}
}

func TestUserHandler_Create_InvalidUsername(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateMemberInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/users", `{"email":"a@x.com","password":"secret1","fullName":"Jane Doe","username":"ja ne"}`)

	err := handler.Create(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0].Field != "username" {
		t.Fatalf("expected username validation error, got %v", err)
	}
}

func TestUserHandler_Create_EmailTaken(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.CreateMemberInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/users", `{"email":"a@x.com","password":"secret1","fullName":"Jane Doe"}`)

	if err := handler.Create(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}
