package auth

import (
	"errors"

	"github.com/mx-space/sitecms/internal/models"
)

type RegisterDTO struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Email    string      `json:"email"    binding:"required,email,max=100"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
	Role     models.Role `json:"role"     binding:"omitempty,oneof=author admin"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Result is returned by register and login.
type Result struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAdminSignupDisabled = errors.New("admin self-registration is disabled")
	ErrUserNotFound        = errors.New("user not found")
)
