// Package identity provides the user directory module: profile and
// directory lookups used by administrators and by notification fan-out.
package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/internal/http"
	"citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/internal/identity/handler"
	"citizenconnect_backend/internal/identity/repository"
	"citizenconnect_backend/internal/identity/service"
	"citizenconnect_backend/platform/httpkit"
)

// Module wires the identity feature.
type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

// NewModule creates the identity module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{
		svc:     svc,
		handler: handler.New(svc),
	}
}

// Name returns the module name.
func (m *Module) Name() string { return "identity" }

// Service exposes the directory service for other modules.
func (m *Module) Service() *service.Service { return m.svc }

// RegisterRoutes registers the identity routes.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	cityOnly := httpkit.RequireRole(
		domain.RoleCityAdmin,
		domain.RoleSuperAdmin,
		domain.RoleMayor,
	)

	users := ctx.Admin.Group("/users", cityOnly)
	users.GET("", m.handler.ListUsers)
	users.GET("/:id", m.handler.GetUser)
}
