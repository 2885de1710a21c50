package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/complaints/domain"
)

// Complaint is a citizen grievance moving through the lifecycle pipeline.
type Complaint struct {
	ID             uuid.UUID     `db:"id"`
	Title          string        `db:"title"`
	Description    string        `db:"description"`
	Domain         string        `db:"domain"`
	Category       string        `db:"category"`
	Department     *string       `db:"department"`
	Status         domain.Status `db:"status"`
	Location       *string       `db:"location"`
	Latitude       *float64      `db:"latitude"`
	Longitude      *float64      `db:"longitude"`
	Ward           *string       `db:"ward"`
	Zone           *string       `db:"zone"`
	District       *string       `db:"district"`
	MediaURL       *string       `db:"media_url"`
	UserID         uuid.UUID     `db:"user_id"`
	AssignedToID   *uuid.UUID    `db:"assigned_to_id"`
	AssignedByID   *uuid.UUID    `db:"assigned_by_id"`
	CreatedAt      time.Time     `db:"created_at"`
	AssignedAt     *time.Time    `db:"assigned_at"`
	AcknowledgedAt *time.Time    `db:"acknowledged_at"`
	InProgressAt   *time.Time    `db:"in_progress_at"`
	ResolvedAt     *time.Time    `db:"resolved_at"`
	ClosedAt       *time.Time    `db:"closed_at"`
}

// StatusUpdate is one append-only audit entry in a complaint's history.
type StatusUpdate struct {
	ID                        uuid.UUID     `db:"id"`
	ComplaintID               uuid.UUID     `db:"complaint_id"`
	Status                    domain.Status `db:"status"`
	Remarks                   *string       `db:"remarks"`
	UpdatedByID               *uuid.UUID    `db:"updated_by_id"`
	UpdatedAt                 time.Time     `db:"updated_at"`
	TimeSpentInPreviousStatus *int          `db:"time_spent_in_previous_status"`
}

// DomainCategory maps a (domain, category) pair to the responsible department.
type DomainCategory struct {
	ID         uuid.UUID `db:"id"`
	Domain     string    `db:"domain"`
	Category   string    `db:"category"`
	Department string    `db:"department"`
}

// CreateParams contains parameters for registering a complaint. Assignment
// fields are set when the resolver found an eligible employee; in that case
// the complaint starts Acknowledged with a single audit row.
type CreateParams struct {
	Title        string
	Description  string
	Domain       string
	Category     string
	Department   *string
	Location     *string
	Latitude     *float64
	Longitude    *float64
	Ward         *string
	Zone         *string
	District     *string
	MediaURL     *string
	UserID       uuid.UUID
	AssignedToID *uuid.UUID
}

// UpdateStatusParams contains parameters for a lifecycle transition.
type UpdateStatusParams struct {
	NewStatus   domain.Status
	Remarks     string
	UpdatedByID uuid.UUID
}

// StatusTransition is the committed outcome of a lifecycle transition.
type StatusTransition struct {
	Complaint Complaint
	Update    StatusUpdate
	OldStatus domain.Status
}

// AssignParams contains parameters for a manual assignment.
type AssignParams struct {
	AssigneeID   uuid.UUID
	AssignedByID uuid.UUID
	Department   *string
	Remarks      string
}

// ReassignParams contains parameters for moving a complaint to a new assignee.
type ReassignParams struct {
	NewAssigneeID uuid.UUID
	AssignedByID  uuid.UUID
	Remarks       string
}

// UnassignParams contains parameters for clearing a complaint's assignee.
type UnassignParams struct {
	ActorID uuid.UUID
	Remarks string
}

// UpdateParams contains citizen-editable fields; nil fields are unchanged.
type UpdateParams struct {
	Title       *string
	Description *string
	Location    *string
}

// ListFilter narrows complaint listings. Zero values mean "no constraint";
// role scoping is resolved by the service before the filter reaches SQL.
type ListFilter struct {
	Domain       string
	Category     string
	Status       string
	Department   string
	Ward         string
	UserID       *uuid.UUID
	AssignedToID *uuid.UUID
	From         *time.Time
	To           *time.Time
}

// ArchiveFilter narrows the archive, which only ever holds Resolved and
// Closed complaints. Zero values mean "no constraint"; role scoping is
// resolved by the service before the filter reaches SQL.
type ArchiveFilter struct {
	Domain     string
	Category   string
	Department string
	Query      string
	Year       int
	UserID     *uuid.UUID
	Page       int
	Limit      int
}

// ArchivePage is one page of archived complaints with the unpaged total.
type ArchivePage struct {
	Complaints []Complaint
	TotalCount int
}

// YearCount is the number of complaints closed out in one year.
type YearCount struct {
	Year  int `db:"year"`
	Count int `db:"count"`
}

// ArchiveStats summarizes the archive: totals, a per-year breakdown, and
// the average hours from creation to resolution.
type ArchiveStats struct {
	TotalArchived      int
	Yearly             []YearCount
	AvgResolutionHours int
}

// ComplaintReader provides read operations for complaints.
type ComplaintReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Complaint, error)
	List(ctx context.Context, filter ListFilter) ([]Complaint, error)
	ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]Complaint, error)
	ListStatusUpdates(ctx context.Context, complaintID uuid.UUID) ([]StatusUpdate, error)
	ListArchived(ctx context.Context, filter ArchiveFilter) (ArchivePage, error)
	ArchiveStatistics(ctx context.Context, filter ArchiveFilter) (ArchiveStats, error)
}

// ComplaintWriter provides write operations for complaints. Each method runs
// in a single transaction together with its audit row.
type ComplaintWriter interface {
	Create(ctx context.Context, params CreateParams) (Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, params UpdateStatusParams) (StatusTransition, error)
	Assign(ctx context.Context, id uuid.UUID, params AssignParams) (Complaint, error)
	Reassign(ctx context.Context, id uuid.UUID, params ReassignParams) (Complaint, error)
	Unassign(ctx context.Context, id uuid.UUID, params UnassignParams) (Complaint, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Complaint, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User is the slice of a user record the complaint workflows need.
type User struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Role       string    `db:"role"`
	Department *string   `db:"department"`
	Ward       *string   `db:"ward"`
}

// EmployeeLoad is an assignable employee with their active complaint count.
type EmployeeLoad struct {
	User
	ActiveCount int `db:"active_count"`
}

// DirectoryReader provides the lookups the assignment resolver depends on.
type DirectoryReader interface {
	ResolveDepartment(ctx context.Context, domainName, category string) (string, error)
	ListDomainCategories(ctx context.Context) ([]DomainCategory, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	ListAssignableEmployees(ctx context.Context, department string) ([]EmployeeLoad, error)
}

// Repository combines all complaint repository operations.
type Repository interface {
	ComplaintReader
	ComplaintWriter
	DirectoryReader
}
