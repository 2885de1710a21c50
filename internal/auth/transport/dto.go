package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest contains data for creating an account. Role defaults to
// CITIZEN when omitted.
type RegisterRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=CITIZEN DEPARTMENT_EMPLOYEE DEPARTMENT_ADMIN WARD_OFFICER CITY_ADMIN SUPER_ADMIN MAYOR"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=200"`
	Ward       *string `json:"ward,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	Ward       *string   `json:"ward,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthResponse is the login/registration payload.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
