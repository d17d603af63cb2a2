package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/api/metrics"
	"github.com/adroid/pool-registry/internal/core/ports"
)

// UserHandler handles admin account provisioning.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create provisions a member account. When username is omitted it is
// derived from the email.
//
// @Summary      Create a member
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMemberRequest  true  "Member details"
// @Success      201   {object}  Response{data=identityResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      403   {object}  Response
// @Failure      500   {object}  Response
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateMember(c.Request().Context(), ports.CreateMemberInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Username: req.Username,
	})
	if err != nil {
		return err
	}

	metrics.MembersCreatedTotal.Inc()
	return respond(c, http.StatusCreated, newIdentityResponse(user, ""))
}
