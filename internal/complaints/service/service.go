// Package service implements the complaint lifecycle workflows: intake with
// automatic routing, status transitions, assignment, and role-scoped reads.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/complaints/domain"
	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/transport"
	"citizenconnect_backend/internal/events"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
	"citizenconnect_backend/platform/logger"
)

// Actor identifies the authenticated caller for policy checks.
type Actor struct {
	ID         uuid.UUID
	Role       string
	Department string
	Ward       string
}

// Service provides business logic for complaints.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new complaints service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Raise registers a new complaint. The department is resolved from the
// routing table and, when the department has eligible staff, the complaint
// is auto-assigned to the least busy employee and starts Acknowledged.
func (s *Service) Raise(ctx context.Context, userID uuid.UUID, req transport.RaiseComplaintRequest) (transport.ComplaintDetailResponse, error) {
	department, assigneeID, err := s.resolveAssignment(ctx, req.Domain, req.Category)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	complaint, err := s.repo.Create(ctx, repository.CreateParams{
		Title:        req.Title,
		Description:  req.Description,
		Domain:       req.Domain,
		Category:     req.Category,
		Department:   department,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Ward:         req.Ward,
		Zone:         req.Zone,
		District:     req.District,
		MediaURL:     req.MediaURL,
		UserID:       userID,
		AssignedToID: assigneeID,
	})
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	if assigneeID != nil {
		s.log.AssignmentEvent("auto_assigned", complaint.ID.String(), assigneeID.String())
	}

	s.bus.Publish(ctx, events.ComplaintCreated{
		BaseEvent:   events.NewBaseEvent(),
		ComplaintID: complaint.ID,
		CitizenID:   complaint.UserID,
		Title:       complaint.Title,
		Department:  stringOrEmpty(complaint.Department),
		Ward:        stringOrEmpty(complaint.Ward),
		AssigneeID:  complaint.AssignedToID,
	})

	return toDetailResponse(complaint), nil
}

// GetByID retrieves a complaint with its pipeline position. Citizens may
// only read their own complaints.
func (s *Service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (transport.ComplaintDetailResponse, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	if actor.Role == identity.RoleCitizen && complaint.UserID != actor.ID {
		return transport.ComplaintDetailResponse{}, apperr.Forbidden("you may only view your own complaints")
	}

	return toDetailResponse(complaint), nil
}

// List retrieves complaints scoped to the caller's role: citizens see their
// own, employees their assigned, department admins their department, ward
// officers their ward, and city-level roles everything.
func (s *Service) List(ctx context.Context, actor Actor, req transport.ListComplaintsRequest) (transport.ComplaintListResponse, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return transport.ComplaintListResponse{}, err
	}

	switch actor.Role {
	case identity.RoleCitizen:
		userID := actor.ID
		filter.UserID = &userID
	case identity.RoleDepartmentEmployee:
		assignedTo := actor.ID
		filter.AssignedToID = &assignedTo
	case identity.RoleDepartmentAdmin:
		filter.Department = actor.Department
	case identity.RoleWardOfficer:
		if actor.Ward != "" {
			filter.Ward = actor.Ward
		}
	default:
		if !identity.IsCityLevelRole(actor.Role) {
			return transport.ComplaintListResponse{}, apperr.Forbidden("role not permitted to list complaints")
		}
	}

	complaints, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.ComplaintListResponse{}, err
	}
	return toListResponse(complaints), nil
}

// MyComplaints retrieves the caller's own complaints.
func (s *Service) MyComplaints(ctx context.Context, userID uuid.UUID) (transport.ComplaintListResponse, error) {
	complaints, err := s.repo.List(ctx, repository.ListFilter{UserID: &userID})
	if err != nil {
		return transport.ComplaintListResponse{}, err
	}
	return toListResponse(complaints), nil
}

// MyAssigned retrieves the complaints assigned to the caller.
func (s *Service) MyAssigned(ctx context.Context, userID uuid.UUID) (transport.ComplaintListResponse, error) {
	complaints, err := s.repo.ListAssignedTo(ctx, userID)
	if err != nil {
		return transport.ComplaintListResponse{}, err
	}
	return toListResponse(complaints), nil
}

// UpdateStatus performs a lifecycle transition after a policy check. The
// repository validates the transition under a row lock and appends the
// audit entry in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req transport.UpdateStatusRequest) (transport.ComplaintDetailResponse, error) {
	if reason := domain.Authorize(domain.OpUpdateStatus, policyActor(actor), ""); reason != "" {
		return transport.ComplaintDetailResponse{}, apperr.Forbidden(reason)
	}

	newStatus := domain.Status(req.NewStatus)
	remarks := fmt.Sprintf("%s updated by %s", req.NewStatus, actor.Role)
	if req.Remarks != nil && *req.Remarks != "" {
		remarks = *req.Remarks
	}

	result, err := s.repo.UpdateStatus(ctx, id, repository.UpdateStatusParams{
		NewStatus:   newStatus,
		Remarks:     remarks,
		UpdatedByID: actor.ID,
	})
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	s.log.StatusTransition(id.String(), string(result.OldStatus), string(newStatus), actor.ID.String())

	s.bus.Publish(ctx, events.ComplaintStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		ComplaintID: result.Complaint.ID,
		CitizenID:   result.Complaint.UserID,
		AssigneeID:  result.Complaint.AssignedToID,
		OldStatus:   string(result.OldStatus),
		NewStatus:   string(newStatus),
		Remarks:     remarks,
		ActorID:     actor.ID,
		Title:       result.Complaint.Title,
	})

	return toDetailResponse(result.Complaint), nil
}

// Update applies citizen edits. Only the owner may edit, and only while the
// complaint is still Raised.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, req transport.UpdateComplaintRequest) (transport.ComplaintDetailResponse, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}
	if complaint.UserID != actor.ID {
		return transport.ComplaintDetailResponse{}, apperr.Forbidden("you may only edit your own complaints")
	}
	if complaint.Status != domain.StatusRaised {
		return transport.ComplaintDetailResponse{}, apperr.Conflict("complaint can no longer be edited once it has been acknowledged")
	}

	updated, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}
	return toDetailResponse(updated), nil
}

// Delete removes a complaint. Only the owner may delete, and only while the
// complaint is still Raised.
func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if complaint.UserID != actor.ID {
		return apperr.Forbidden("you may only delete your own complaints")
	}
	if complaint.Status != domain.StatusRaised {
		return apperr.Conflict("complaint can no longer be deleted once it has been acknowledged")
	}

	return s.repo.Delete(ctx, id)
}

// StatusHistory retrieves a complaint's audit entries, oldest first.
func (s *Service) StatusHistory(ctx context.Context, actor Actor, id uuid.UUID) ([]transport.StatusUpdateResponse, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleCitizen && complaint.UserID != actor.ID {
		return nil, apperr.Forbidden("you may only view your own complaints")
	}

	updates, err := s.repo.ListStatusUpdates(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]transport.StatusUpdateResponse, len(updates))
	for i, u := range updates {
		out[i] = toStatusUpdateResponse(u)
	}
	return out, nil
}

// Domains retrieves the routing table grouped by domain for the intake form.
func (s *Service) Domains(ctx context.Context) ([]transport.DomainGroup, error) {
	categories, err := s.repo.ListDomainCategories(ctx)
	if err != nil {
		return nil, err
	}

	var groups []transport.DomainGroup
	index := make(map[string]int)
	for _, dc := range categories {
		i, ok := index[dc.Domain]
		if !ok {
			i = len(groups)
			index[dc.Domain] = i
			groups = append(groups, transport.DomainGroup{Domain: dc.Domain})
		}
		groups[i].Categories = append(groups[i].Categories, dc.Category)
	}
	return groups, nil
}

// DomainCategories retrieves the flat routing table.
func (s *Service) DomainCategories(ctx context.Context) ([]transport.DomainCategoryResponse, error) {
	categories, err := s.repo.ListDomainCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.DomainCategoryResponse, len(categories))
	for i, dc := range categories {
		out[i] = transport.DomainCategoryResponse{
			ID:         dc.ID,
			Domain:     dc.Domain,
			Category:   dc.Category,
			Department: dc.Department,
		}
	}
	return out, nil
}

func buildFilter(req transport.ListComplaintsRequest) (repository.ListFilter, error) {
	filter := repository.ListFilter{
		Domain:     req.Domain,
		Category:   req.Category,
		Status:     req.Status,
		Department: req.Department,
		Ward:       req.Ward,
	}

	if req.Status != "" && !domain.IsKnownStatus(req.Status) {
		return repository.ListFilter{}, apperr.Validation("unknown status filter")
	}

	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return repository.ListFilter{}, apperr.Validation("invalid 'from' timestamp, expected RFC 3339")
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return repository.ListFilter{}, apperr.Validation("invalid 'to' timestamp, expected RFC 3339")
		}
		filter.To = &to
	}

	return filter, nil
}

func policyActor(actor Actor) domain.Actor {
	return domain.Actor{Role: actor.Role, Department: actor.Department}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResponse(c repository.Complaint) transport.ComplaintResponse {
	return transport.ComplaintResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Domain:         c.Domain,
		Category:       c.Category,
		Department:     c.Department,
		Status:         string(c.Status),
		Location:       c.Location,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		Ward:           c.Ward,
		Zone:           c.Zone,
		District:       c.District,
		MediaURL:       c.MediaURL,
		UserID:         c.UserID,
		AssignedToID:   c.AssignedToID,
		AssignedByID:   c.AssignedByID,
		CreatedAt:      c.CreatedAt,
		AssignedAt:     c.AssignedAt,
		AcknowledgedAt: c.AcknowledgedAt,
		InProgressAt:   c.InProgressAt,
		ResolvedAt:     c.ResolvedAt,
		ClosedAt:       c.ClosedAt,
	}
}

func toDetailResponse(c repository.Complaint) transport.ComplaintDetailResponse {
	next := domain.NextPossibleStatuses(c.Status)
	nextNames := make([]string, len(next))
	for i, s := range next {
		nextNames[i] = string(s)
	}

	return transport.ComplaintDetailResponse{
		ComplaintResponse:    toResponse(c),
		ProgressPercentage:   domain.ProgressPercentage(c.Status),
		NextPossibleStatuses: nextNames,
	}
}

func toListResponse(complaints []repository.Complaint) transport.ComplaintListResponse {
	out := make([]transport.ComplaintResponse, len(complaints))
	for i, c := range complaints {
		out[i] = toResponse(c)
	}
	return transport.ComplaintListResponse{Count: len(out), Complaints: out}
}

func toStatusUpdateResponse(u repository.StatusUpdate) transport.StatusUpdateResponse {
	return transport.StatusUpdateResponse{
		ID:                        u.ID,
		ComplaintID:               u.ComplaintID,
		Status:                    string(u.Status),
		Remarks:                   u.Remarks,
		UpdatedByID:               u.UpdatedByID,
		UpdatedAt:                 u.UpdatedAt,
		TimeSpentInPreviousStatus: u.TimeSpentInPreviousStatus,
	}
}
