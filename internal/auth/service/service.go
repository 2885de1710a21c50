// Package service implements registration and login for the auth
// bounded context.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"citizenconnect_backend/internal/auth/password"
	"citizenconnect_backend/internal/auth/repository"
	"citizenconnect_backend/internal/auth/transport"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
	"citizenconnect_backend/platform/config"
	"citizenconnect_backend/platform/logger"
)

// Config combines the config interfaces the auth service needs.
type Config interface {
	config.JWTConfig
	config.AuthServiceConfig
}

// Service provides registration, login, and token issuance.
type Service struct {
	repo *repository.Repository
	cfg  Config
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Register creates an account and returns a signed access token.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.AuthResponse, error) {
	role := identity.RoleCitizen
	if req.Role != nil {
		role = *req.Role
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateParams{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		Department:   req.Department,
		Ward:         req.Ward,
	})
	if err != nil {
		s.log.AuthEvent("register", req.Email, false, err.Error())
		return transport.AuthResponse{}, err
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return s.respond(user)
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	s.log.AuthEvent("login", email, true, "")
	return s.respond(user)
}

// Me retrieves the caller's own profile.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) respond(user repository.User) (transport.AuthResponse, error) {
	token, err := s.issueAccessToken(user)
	if err != nil {
		return transport.AuthResponse{}, err
	}
	return transport.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

// issueAccessToken signs a short-lived HMAC access token carrying the
// identity claims the middleware and policy layer consume.
func (s *Service) issueAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"type": "access",
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	if user.Department != nil {
		claims["department"] = *user.Department
	}
	if user.Ward != nil {
		claims["ward"] = *user.Ward
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		Ward:       user.Ward,
		CreatedAt:  user.CreatedAt,
	}
}
