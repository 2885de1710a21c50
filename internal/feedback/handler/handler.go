package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"citizenconnect_backend/internal/feedback/service"
	"citizenconnect_backend/internal/feedback/transport"
	"citizenconnect_backend/platform/httpkit"
	"citizenconnect_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid complaint ID"
)

// Handler handles HTTP requests for feedback.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new feedback handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit records feedback on a handled complaint.
// POST /api/v1/feedback/complaint/:complaintId
func (h *Handler) Submit(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	complaintID, err := uuid.Parse(c.Param("complaintId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), identity.UserID(), complaintID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update modifies previously submitted feedback.
// PUT /api/v1/feedback/complaint/:complaintId
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	complaintID, err := uuid.Parse(c.Param("complaintId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.UserID(), complaintID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes previously submitted feedback.
// DELETE /api/v1/feedback/complaint/:complaintId
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	complaintID, err := uuid.Parse(c.Param("complaintId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), complaintID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "feedback deleted successfully"})
}

// ForComplaint retrieves the feedback left on a complaint.
// GET /api/v1/feedback/complaint/:complaintId
func (h *Handler) ForComplaint(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("complaintId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.ForComplaint(c.Request.Context(), complaintID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RatingStats aggregates ratings, optionally filtered.
// GET /api/v1/feedback/ratings/average
func (h *Handler) RatingStats(c *gin.Context) {
	var req transport.RatingFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.RatingStats(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// TopRatedDepartments ranks departments by citizen satisfaction.
// GET /api/v1/feedback/ratings/top-departments
func (h *Handler) TopRatedDepartments(c *gin.Context) {
	result, err := h.svc.TopRatedDepartments(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAll retrieves every feedback entry for the admin panel.
// GET /api/v1/admin/feedback
func (h *Handler) ListAll(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListAll(c.Request.Context(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
