package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adroid/pool-registry/internal/api/handler"
	"github.com/adroid/pool-registry/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (int, handler.Response) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/pools", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp handler.Response
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &resp); jsonErr != nil {
		t.Fatalf("invalid json: %v", jsonErr)
	}
	return rec.Code, resp
}

func TestErrorHandler_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "Not authorized, no token"},
		{"bad token", domain.ErrInvalidToken, http.StatusUnauthorized, "Not authorized, token failed"},
		{"forbidden", domain.ErrInsufficientRole, http.StatusForbidden, "Forbidden: insufficient role"},
		{"not found", domain.ErrPoolNotFound, http.StatusNotFound, "Pool not found"},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrPoolNotFound), http.StatusNotFound, "get: Pool not found"},
		{"conflict", domain.ErrUsernameTaken, http.StatusBadRequest, "Username already taken"},
		{"search term", domain.ErrSearchQueryRequired, http.StatusBadRequest, "Search query is required"},
		{"throttled", domain.ErrLoginThrottled, http.StatusTooManyRequests, "Too many failed login attempts, try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := runErrorHandler(t, tt.err)
			if code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, code)
			}
			if resp.Success {
				t.Fatalf("expected success=false")
			}
			if resp.Message != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, resp.Message)
			}
		})
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	err := domain.NewValidationError(domain.FieldError{Field: "gallons", Message: "gallons is required"})

	code, resp := runErrorHandler(t, err)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp.Message != "Validation Error" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "gallons" {
		t.Fatalf("unexpected field errors: %+v", resp.Errors)
	}
}

func TestErrorHandler_Unexpected(t *testing.T) {
	code, resp := runErrorHandler(t, errors.New("connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if resp.Message != "Server Error" || resp.Error != "connection reset" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, resp := runErrorHandler(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest || resp.Message != "invalid payload" {
		t.Fatalf("unexpected response %d %+v", code, resp)
	}
}
