// Package handler exposes analytics endpoints over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"citizenconnect_backend/internal/analytics/service"
	"citizenconnect_backend/internal/analytics/transport"
	"citizenconnect_backend/platform/httpkit"
)

// Handler handles analytics HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a new analytics handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard returns the headline statistics for the actor's scope.
func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.Dashboard(c.Request.Context(), identity.Role(), identity.Department())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ByCategory returns complaint counts grouped by category.
func (h *Handler) ByCategory(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.CategoryBreakdown(c.Request.Context(), identity.Role(), identity.Department())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ByDomain returns complaint counts grouped by domain.
func (h *Handler) ByDomain(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.DomainBreakdown(c.Request.Context(), identity.Role(), identity.Department())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ByDepartment returns city-wide complaint counts per department.
func (h *Handler) ByDepartment(c *gin.Context) {
	resp, err := h.svc.DepartmentBreakdown(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Trend returns the complaints time series for a period.
func (h *Handler) Trend(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.TrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	resp, err := h.svc.Trend(c.Request.Context(), identity.Role(), identity.Department(), req.Period)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// EmployeePerformance ranks staff by resolution outcomes.
func (h *Handler) EmployeePerformance(c *gin.Context) {
	resp, err := h.svc.EmployeePerformance(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// StatusHistory returns a complaint's full lifecycle timeline.
func (h *Handler) StatusHistory(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid complaint ID", nil)
		return
	}

	resp, err := h.svc.StatusHistory(c.Request.Context(), complaintID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// RecentChanges returns the latest status updates visible to the actor.
func (h *Handler) RecentChanges(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.svc.RecentChanges(c.Request.Context(), identity.Role(), identity.UserID(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// MapData returns complaint pins for map rendering.
func (h *Handler) MapData(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.MapRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	resp, err := h.svc.MapData(c.Request.Context(), identity.Role(), identity.Department(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// SeverityZones returns the complaint density grid.
func (h *Handler) SeverityZones(c *gin.Context) {
	gridSize, err := strconv.ParseFloat(c.DefaultQuery("gridSize", "0.01"), 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "gridSize must be a number", nil)
		return
	}

	resp, err := h.svc.SeverityZones(c.Request.Context(), gridSize)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// AreaStats returns complaint outcomes grouped by area.
func (h *Handler) AreaStats(c *gin.Context) {
	resp, err := h.svc.AreaStats(c.Request.Context(), c.DefaultQuery("groupBy", "ward"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
