package handler

import (
	"strings"

	"github.com/adroid/pool-registry/internal/core/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
}

func (r *registerRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = normalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
}

type createMemberRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"omitempty,min=3,max=50,username"`
}

func (r *createMemberRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Username = strings.TrimSpace(r.Username)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// identityResponse is the public view of an account. Token is only set by
// register and login.
type identityResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`
	Token    string      `json:"token,omitempty"`
}

func newIdentityResponse(u *domain.User, token string) identityResponse {
	return identityResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		Token:    token,
	}
}
