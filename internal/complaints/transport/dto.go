package transport

import (
	"time"

	"github.com/google/uuid"
)

// RaiseComplaintRequest contains data for registering a new complaint.
type RaiseComplaintRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=10,max=5000"`
	Domain      string   `json:"domain" validate:"required,max=100"`
	Category    string   `json:"category" validate:"required,max=200"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Ward        *string  `json:"ward,omitempty" validate:"omitempty,max=100"`
	Zone        *string  `json:"zone,omitempty" validate:"omitempty,max=100"`
	District    *string  `json:"district,omitempty" validate:"omitempty,max=100"`
	MediaURL    *string  `json:"mediaUrl,omitempty" validate:"omitempty,url,max=1000"`
}

// UpdateStatusRequest contains data for a lifecycle transition.
type UpdateStatusRequest struct {
	NewStatus string  `json:"newStatus" validate:"required"`
	Remarks   *string `json:"remarks,omitempty" validate:"omitempty,max=2000"`
}

// AssignRequest contains data for manually assigning a complaint.
type AssignRequest struct {
	AssignedToID uuid.UUID `json:"assignedToId" validate:"required"`
	Department   *string   `json:"department,omitempty" validate:"omitempty,max=200"`
}

// ReassignRequest contains data for moving a complaint to another employee.
type ReassignRequest struct {
	NewAssignedToID uuid.UUID `json:"newAssignedToId" validate:"required"`
}

// UpdateComplaintRequest contains the citizen-editable fields.
type UpdateComplaintRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=500"`
}

// ListComplaintsRequest narrows complaint listings via query parameters.
type ListComplaintsRequest struct {
	Domain     string `form:"domain"`
	Category   string `form:"category"`
	Status     string `form:"status"`
	Department string `form:"department"`
	Ward       string `form:"ward"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// ArchiveRequest narrows the archive listing via query parameters.
type ArchiveRequest struct {
	Domain     string `form:"domain"`
	Category   string `form:"category"`
	Department string `form:"department"`
	Query      string `form:"q"`
	Year       int    `form:"year"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ComplaintResponse represents a complaint in API responses.
type ComplaintResponse struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Domain         string     `json:"domain"`
	Category       string     `json:"category"`
	Department     *string    `json:"department,omitempty"`
	Status         string     `json:"status"`
	Location       *string    `json:"location,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Ward           *string    `json:"ward,omitempty"`
	Zone           *string    `json:"zone,omitempty"`
	District       *string    `json:"district,omitempty"`
	MediaURL       *string    `json:"mediaUrl,omitempty"`
	UserID         uuid.UUID  `json:"userId"`
	AssignedToID   *uuid.UUID `json:"assignedToId,omitempty"`
	AssignedByID   *uuid.UUID `json:"assignedById,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	AssignedAt     *time.Time `json:"assignedAt,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	InProgressAt   *time.Time `json:"inProgressAt,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	ClosedAt       *time.Time `json:"closedAt,omitempty"`
}

// ComplaintDetailResponse is a complaint plus its pipeline position.
type ComplaintDetailResponse struct {
	ComplaintResponse
	ProgressPercentage   int      `json:"progressPercentage"`
	NextPossibleStatuses []string `json:"nextPossibleStatuses"`
}

// ComplaintListResponse wraps a list of complaints.
type ComplaintListResponse struct {
	Count      int                 `json:"count"`
	Complaints []ComplaintResponse `json:"complaints"`
}

// ArchivedComplaintResponse is a closed-out complaint with the time it
// took to resolve.
type ArchivedComplaintResponse struct {
	ComplaintResponse
	ResolutionTimeHours     *int   `json:"resolutionTimeHours"`
	ResolutionTimeFormatted string `json:"resolutionTimeFormatted"`
}

// Pagination places one page within the full result set.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	Limit       int `json:"limit"`
}

// ArchiveListResponse wraps one page of archived complaints.
type ArchiveListResponse struct {
	Complaints []ArchivedComplaintResponse `json:"complaints"`
	Pagination Pagination                  `json:"pagination"`
}

// ArchiveYearCount is the number of complaints closed out in one year.
type ArchiveYearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// ArchiveStatsResponse summarizes the caller's slice of the archive.
type ArchiveStatsResponse struct {
	TotalArchived                  int                `json:"totalArchived"`
	YearlyBreakdown                []ArchiveYearCount `json:"yearlyBreakdown"`
	AverageResolutionTimeHours     int                `json:"averageResolutionTimeHours"`
	AverageResolutionTimeFormatted string             `json:"averageResolutionTimeFormatted"`
}

// StatusUpdateResponse represents one audit entry.
type StatusUpdateResponse struct {
	ID                        uuid.UUID  `json:"id"`
	ComplaintID               uuid.UUID  `json:"complaintId"`
	Status                    string     `json:"status"`
	Remarks                   *string    `json:"remarks,omitempty"`
	UpdatedByID               *uuid.UUID `json:"updatedById,omitempty"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
	TimeSpentInPreviousStatus *int       `json:"timeSpentInPreviousStatus,omitempty"`
}

// DomainCategoryResponse maps a category to its department.
type DomainCategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	Domain     string    `json:"domain"`
	Category   string    `json:"category"`
	Department string    `json:"department"`
}

// DomainGroup is one domain with its categories, for the intake form.
type DomainGroup struct {
	Domain     string   `json:"domain"`
	Categories []string `json:"categories"`
}

// EmployeeResponse describes an assignable employee.
type EmployeeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Department  *string   `json:"department,omitempty"`
	ActiveCount int       `json:"activeCount"`
}
