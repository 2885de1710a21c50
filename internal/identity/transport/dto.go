package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListUsersRequest filters directory listings.
type ListUsersRequest struct {
	Role       string `form:"role"`
	Department string `form:"department"`
	Ward       string `form:"ward"`
}

// UserResponse is a directory entry as exposed over the API.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	Ward       *string   `json:"ward,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserListResponse wraps a directory listing.
type UserListResponse struct {
	Count int            `json:"count"`
	Users []UserResponse `json:"users"`
}
