package service

import (
	"context"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/internal/identity/repository"
	"citizenconnect_backend/internal/identity/transport"
	"citizenconnect_backend/platform/apperr"
)

// Directory exposes user directory lookups to other modules and handlers.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	List(ctx context.Context, filter repository.ListFilter) ([]repository.User, error)
	ListIDsByRoles(ctx context.Context, roles []string) ([]uuid.UUID, error)
}

// Service handles user directory operations.
type Service struct {
	repo Directory
}

// New creates a new identity service.
func New(repo Directory) *Service {
	return &Service{repo: repo}
}

// Profile retrieves the directory entry for a user.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toResponse(user), nil
}

// ListUsers retrieves directory entries matching the request filters.
// Restricted to city-level administrators.
func (s *Service) ListUsers(ctx context.Context, actorRole string, req transport.ListUsersRequest) (transport.UserListResponse, error) {
	if !domain.IsCityLevelRole(actorRole) {
		return transport.UserListResponse{}, apperr.Forbidden("not authorized to list users")
	}
	if req.Role != "" && !domain.IsKnownRole(req.Role) {
		return transport.UserListResponse{}, apperr.Validation("unknown role filter")
	}

	users, err := s.repo.List(ctx, repository.ListFilter{
		Role:       req.Role,
		Department: req.Department,
		Ward:       req.Ward,
	})
	if err != nil {
		return transport.UserListResponse{}, err
	}

	resp := transport.UserListResponse{
		Count: len(users),
		Users: make([]transport.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, toResponse(u))
	}
	return resp, nil
}

// AdminRecipientIDs returns the users who receive city-wide broadcast
// notifications when a complaint is raised.
func (s *Service) AdminRecipientIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListIDsByRoles(ctx, []string{
		domain.RoleCityAdmin,
		domain.RoleSuperAdmin,
	})
}

func toResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Ward:       u.Ward,
		CreatedAt:  u.CreatedAt,
	}
}
