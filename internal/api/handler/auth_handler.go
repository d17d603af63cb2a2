package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/api/metrics"
	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new admin account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  Response{data=identityResponse}
// @Failure      400   {object}  Response
// @Failure      500   {object}  Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return respond(c, http.StatusCreated, newIdentityResponse(result.User, result.Token))
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Response{data=identityResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      429   {object}  Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, newIdentityResponse(result.User, result.Token))
}

// Me returns the identity behind the bearer token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=identityResponse}
// @Failure      401  {object}  Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, newIdentityResponse(user, ""))
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "invalid_credentials"
	default:
		return "error"
	}
}
