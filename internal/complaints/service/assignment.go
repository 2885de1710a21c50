package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/complaints/domain"
	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/transport"
	"citizenconnect_backend/internal/events"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
)

// resolveAssignment routes a new complaint: the (domain, category) pair maps
// to a department, and the department's least busy employee becomes the
// assignee. Either step may come up empty, which leaves the complaint
// unrouted or unassigned respectively.
func (s *Service) resolveAssignment(ctx context.Context, domainName, category string) (*string, *uuid.UUID, error) {
	department, err := s.repo.ResolveDepartment(ctx, domainName, category)
	if err != nil {
		return nil, nil, err
	}
	if department == "" {
		s.log.Warn("no department mapping", "domain", domainName, "category", category)
		return nil, nil, nil
	}

	employees, err := s.repo.ListAssignableEmployees(ctx, department)
	if err != nil {
		return nil, nil, err
	}
	return &department, selectLeastBusy(employees), nil
}

// selectLeastBusy picks the employee with the strictly fewest active
// complaints. Ties break to the lowest user ID so the choice is
// deterministic regardless of query ordering. Returns nil when the
// department has no eligible staff.
//
// The counts are a point-in-time read; concurrent creations may both
// observe the same least-busy employee. That is acceptable for a routing
// heuristic.
func selectLeastBusy(employees []repository.EmployeeLoad) *uuid.UUID {
	if len(employees) == 0 {
		return nil
	}

	best := employees[0]
	for _, candidate := range employees[1:] {
		if candidate.ActiveCount < best.ActiveCount {
			best = candidate
			continue
		}
		if candidate.ActiveCount == best.ActiveCount && candidate.ID.String() < best.ID.String() {
			best = candidate
		}
	}

	id := best.ID
	return &id
}

// Assign manually assigns a complaint to an employee. Department admins may
// only assign to employees in their own department. A Raised complaint
// advances to Acknowledged.
func (s *Service) Assign(ctx context.Context, actor Actor, id uuid.UUID, req transport.AssignRequest) (transport.ComplaintDetailResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	assignee, err := s.repo.GetUser(ctx, req.AssignedToID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ComplaintDetailResponse{}, apperr.NotFound("assigned user not found")
		}
		return transport.ComplaintDetailResponse{}, err
	}
	if !identity.IsAssignableRole(assignee.Role) {
		return transport.ComplaintDetailResponse{}, apperr.Validation("user is not an assignable department employee")
	}

	if reason := domain.Authorize(domain.OpAssign, policyActor(actor), stringOrEmpty(assignee.Department)); reason != "" {
		return transport.ComplaintDetailResponse{}, apperr.Forbidden(reason)
	}

	actorUser, err := s.repo.GetUser(ctx, actor.ID)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	department := req.Department
	if department == nil {
		department = assignee.Department
	}

	updated, err := s.repo.Assign(ctx, id, repository.AssignParams{
		AssigneeID:   assignee.ID,
		AssignedByID: actor.ID,
		Department:   department,
		Remarks:      fmt.Sprintf("Assigned to %s by %s", assignee.Name, actorUser.Name),
	})
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	s.log.AssignmentEvent("assigned", id.String(), assignee.ID.String())

	s.bus.Publish(ctx, events.ComplaintAssigned{
		BaseEvent:    events.NewBaseEvent(),
		ComplaintID:  updated.ID,
		CitizenID:    updated.UserID,
		AssigneeID:   assignee.ID,
		AssignedByID: actor.ID,
		Department:   stringOrEmpty(updated.Department),
		Title:        updated.Title,
	})

	return toDetailResponse(updated), nil
}

// Reassign moves a complaint to a different employee. The previous assignee,
// if any, is notified through the published event.
func (s *Service) Reassign(ctx context.Context, actor Actor, id uuid.UUID, req transport.ReassignRequest) (transport.ComplaintDetailResponse, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	newAssignee, err := s.repo.GetUser(ctx, req.NewAssignedToID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ComplaintDetailResponse{}, apperr.NotFound("new assigned user not found")
		}
		return transport.ComplaintDetailResponse{}, err
	}
	if !identity.IsAssignableRole(newAssignee.Role) {
		return transport.ComplaintDetailResponse{}, apperr.Validation("user is not an assignable department employee")
	}

	if reason := domain.Authorize(domain.OpReassign, policyActor(actor), stringOrEmpty(newAssignee.Department)); reason != "" {
		return transport.ComplaintDetailResponse{}, apperr.Forbidden(reason)
	}

	if _, err := s.repo.GetUser(ctx, actor.ID); err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	previousName := "unassigned"
	previousID := complaint.AssignedToID
	if previousID != nil {
		if previous, err := s.repo.GetUser(ctx, *previousID); err == nil {
			previousName = previous.Name
		}
	}

	updated, err := s.repo.Reassign(ctx, id, repository.ReassignParams{
		NewAssigneeID: newAssignee.ID,
		AssignedByID:  actor.ID,
		Remarks:       fmt.Sprintf("Reassigned from %s to %s", previousName, newAssignee.Name),
	})
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	s.log.AssignmentEvent("reassigned", id.String(), newAssignee.ID.String())

	if previousID != nil {
		s.bus.Publish(ctx, events.ComplaintReassigned{
			BaseEvent:          events.NewBaseEvent(),
			ComplaintID:        updated.ID,
			CitizenID:          updated.UserID,
			PreviousAssigneeID: *previousID,
			NewAssigneeID:      newAssignee.ID,
			AssignedByID:       actor.ID,
			Title:              updated.Title,
		})
	} else {
		s.bus.Publish(ctx, events.ComplaintAssigned{
			BaseEvent:    events.NewBaseEvent(),
			ComplaintID:  updated.ID,
			CitizenID:    updated.UserID,
			AssigneeID:   newAssignee.ID,
			AssignedByID: actor.ID,
			Department:   stringOrEmpty(updated.Department),
			Title:        updated.Title,
		})
	}

	return toDetailResponse(updated), nil
}

// Unassign clears a complaint's assignee.
func (s *Service) Unassign(ctx context.Context, actor Actor, id uuid.UUID) (transport.ComplaintDetailResponse, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	if reason := domain.Authorize(domain.OpUnassign, policyActor(actor), stringOrEmpty(complaint.Department)); reason != "" {
		return transport.ComplaintDetailResponse{}, apperr.Forbidden(reason)
	}

	actorUser, err := s.repo.GetUser(ctx, actor.ID)
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	previousID := complaint.AssignedToID

	updated, err := s.repo.Unassign(ctx, id, repository.UnassignParams{
		ActorID: actor.ID,
		Remarks: fmt.Sprintf("Unassigned by %s", actorUser.Name),
	})
	if err != nil {
		return transport.ComplaintDetailResponse{}, err
	}

	if previousID != nil {
		s.log.AssignmentEvent("unassigned", id.String(), previousID.String())

		s.bus.Publish(ctx, events.ComplaintUnassigned{
			BaseEvent:          events.NewBaseEvent(),
			ComplaintID:        updated.ID,
			CitizenID:          updated.UserID,
			PreviousAssigneeID: *previousID,
			ActorID:            actor.ID,
			Title:              updated.Title,
		})
	}

	return toDetailResponse(updated), nil
}

// AssignableEmployees lists a department's eligible employees with their
// current workload, least busy first.
func (s *Service) AssignableEmployees(ctx context.Context, department string) ([]transport.EmployeeResponse, error) {
	if department == "" {
		return nil, apperr.Validation("department is required")
	}

	employees, err := s.repo.ListAssignableEmployees(ctx, department)
	if err != nil {
		return nil, err
	}

	out := make([]transport.EmployeeResponse, len(employees))
	for i, e := range employees {
		out[i] = transport.EmployeeResponse{
			ID:          e.ID,
			Name:        e.Name,
			Email:       e.Email,
			Role:        e.Role,
			Department:  e.Department,
			ActiveCount: e.ActiveCount,
		}
	}
	return out, nil
}
