// Package analytics provides dashboards, trends, timelines, and
// geospatial summaries over complaint data.
package analytics

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/internal/analytics/handler"
	"citizenconnect_backend/internal/analytics/repository"
	"citizenconnect_backend/internal/analytics/service"
	apphttp "citizenconnect_backend/internal/http"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/httpkit"
	"citizenconnect_backend/platform/logger"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the analytics module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	staff := httpkit.RequireRole(
		identity.RoleDepartmentEmployee,
		identity.RoleDepartmentAdmin,
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	)
	deptAdminUp := httpkit.RequireRole(
		identity.RoleDepartmentAdmin,
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	)
	cityOnly := httpkit.RequireRole(
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	)

	group := ctx.Protected.Group("/analytics")
	group.GET("/dashboard", staff, m.handler.Dashboard)
	group.GET("/by-category", deptAdminUp, m.handler.ByCategory)
	group.GET("/by-domain", deptAdminUp, m.handler.ByDomain)
	group.GET("/trend", deptAdminUp, m.handler.Trend)
	group.GET("/by-department", cityOnly, m.handler.ByDepartment)
	group.GET("/employee-performance", cityOnly, m.handler.EmployeePerformance)

	// Timeline and activity feed are available to every logged-in user;
	// the service scopes citizens to their own complaints.
	status := ctx.Protected.Group("/status")
	status.GET("/recent", m.handler.RecentChanges)
	status.GET("/complaints/:id/timeline", m.handler.StatusHistory)

	heatmap := ctx.Protected.Group("/heatmap")
	heatmap.GET("/map-data", m.handler.MapData)
	heatmap.GET("/severity-zones", m.handler.SeverityZones)
	heatmap.GET("/area-stats", m.handler.AreaStats)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
