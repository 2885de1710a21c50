// Package feedback provides citizen satisfaction ratings on handled
// complaints, with aggregate statistics for administrators.
package feedback

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/internal/events"
	"citizenconnect_backend/internal/feedback/handler"
	"citizenconnect_backend/internal/feedback/repository"
	"citizenconnect_backend/internal/feedback/service"
	apphttp "citizenconnect_backend/internal/http"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/httpkit"
	"citizenconnect_backend/platform/logger"
	"citizenconnect_backend/platform/validator"
)

// Module is the feedback bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the feedback module.
func NewModule(pool *pgxpool.Pool, complaints service.ComplaintReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, complaints, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "feedback"
}

// RegisterRoutes mounts feedback routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Rating aggregates are public so the portal can show department
	// scores without a login.
	ratings := ctx.V1.Group("/feedback/ratings")
	ratings.GET("/average", m.handler.RatingStats)
	ratings.GET("/top-departments", m.handler.TopRatedDepartments)

	group := ctx.Protected.Group("/feedback/complaint")
	group.POST("/:complaintId", m.handler.Submit)
	group.PUT("/:complaintId", m.handler.Update)
	group.DELETE("/:complaintId", m.handler.Delete)
	group.GET("/:complaintId", m.handler.ForComplaint)

	cityOnly := httpkit.RequireRole(
		identity.RoleCityAdmin,
		identity.RoleSuperAdmin,
		identity.RoleMayor,
	)
	ctx.Admin.GET("/feedback", cityOnly, m.handler.ListAll)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
