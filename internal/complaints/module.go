// Package complaints provides the complaint lifecycle bounded context:
// intake with automatic department routing and assignment, the status
// pipeline, and manual assignment workflows.
package complaints

import (
	"citizenconnect_backend/internal/complaints/handler"
	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/service"
	"citizenconnect_backend/internal/events"
	apphttp "citizenconnect_backend/internal/http"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/httpkit"
	"citizenconnect_backend/platform/logger"
	"citizenconnect_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the complaints bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the complaints module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "complaints"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-context reads.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts complaint routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Routing table is public so the intake form works before login.
	ctx.V1.GET("/domains", m.handler.Domains)
	ctx.V1.GET("/domains/categories", m.handler.DomainCategories)

	group := ctx.Protected.Group("/complaints")
	group.POST("", m.handler.Raise)
	group.GET("", m.handler.List)
	group.GET("/my", m.handler.My)
	group.GET("/assigned/my", m.handler.MyAssigned)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.GET("/:id/status-history", m.handler.StatusHistory)

	staffOnly := httpkit.RequireRole(
		identity.RoleWardOfficer,
		identity.RoleDepartmentAdmin,
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	)
	group.PATCH("/:id/status", staffOnly, m.handler.UpdateStatus)

	adminOnly := httpkit.RequireRole(
		identity.RoleDepartmentAdmin,
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
	)
	group.POST("/:id/assign", adminOnly, m.handler.Assign)
	group.POST("/:id/reassign", adminOnly, m.handler.Reassign)
	group.POST("/:id/unassign", adminOnly, m.handler.Unassign)

	archive := ctx.Protected.Group("/archive")
	archive.GET("/complaints", m.handler.Archive)
	archive.GET("/statistics", m.handler.ArchiveStatistics)

	ctx.Protected.GET("/employees/assignable", adminOnly, m.handler.AssignableEmployees)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
