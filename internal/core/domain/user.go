package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of u without the password hash.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
