package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"citizenconnect_backend/internal/identity/service"
	"citizenconnect_backend/internal/identity/transport"
	"citizenconnect_backend/platform/httpkit"
)

// Handler handles user directory HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a new identity handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}

	resp, err := h.svc.ListUsers(c.Request.Context(), identity.Role(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// GetUser handles GET /admin/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	resp, err := h.svc.Profile(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
