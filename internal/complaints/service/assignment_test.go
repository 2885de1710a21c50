package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/complaints/domain"
	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/transport"
	"citizenconnect_backend/internal/events"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
)

func seedAssignmentFixture(repo *fakeRepo) (complaintID uuid.UUID, adminID uuid.UUID, employeeID uuid.UUID) {
	complaintID = uuid.New()
	adminID = uuid.New()
	employeeID = uuid.New()

	repo.complaints[complaintID] = repository.Complaint{
		ID:         complaintID,
		Title:      "Garbage overflow",
		Status:     domain.StatusRaised,
		UserID:     uuid.New(),
		Department: strptr("Sanitation Department"),
	}
	repo.users[adminID] = repository.User{ID: adminID, Name: "Asha Admin", Role: identity.RoleCityAdmin}
	repo.users[employeeID] = repository.User{
		ID:         employeeID,
		Name:       "Eli Employee",
		Role:       identity.RoleDepartmentEmployee,
		Department: strptr("Sanitation Department"),
	}
	return complaintID, adminID, employeeID
}

func TestAssignBuildsRemarksAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	complaintID, adminID, employeeID := seedAssignmentFixture(repo)
	svc, bus := newService(repo)

	actor := Actor{ID: adminID, Role: identity.RoleCityAdmin}
	result, err := svc.Assign(context.Background(), actor, complaintID, transport.AssignRequest{AssignedToID: employeeID})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if repo.assignParams.Remarks != "Assigned to Eli Employee by Asha Admin" {
		t.Errorf("remarks = %q", repo.assignParams.Remarks)
	}
	if result.Status != string(domain.StatusAcknowledged) {
		t.Errorf("status = %s, want Acknowledged after assigning a Raised complaint", result.Status)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	assigned, ok := bus.published[0].(events.ComplaintAssigned)
	if !ok {
		t.Fatalf("event is %T, want ComplaintAssigned", bus.published[0])
	}
	if assigned.AssigneeID != employeeID || assigned.AssignedByID != adminID {
		t.Error("event should carry assignee and assigner")
	}
}

func TestAssignCrossDepartmentDeniedForDepartmentAdmin(t *testing.T) {
	repo := newFakeRepo()
	complaintID, _, employeeID := seedAssignmentFixture(repo)
	svc, bus := newService(repo)

	actor := Actor{ID: uuid.New(), Role: identity.RoleDepartmentAdmin, Department: "Water Department"}
	_, err := svc.Assign(context.Background(), actor, complaintID, transport.AssignRequest{AssignedToID: employeeID})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want Forbidden", err)
	}
	if repo.assignParams != nil {
		t.Error("assignment must not reach the repository")
	}
	if len(bus.published) != 0 {
		t.Error("no event should be published")
	}
}

func TestAssignRejectsNonAssignableRole(t *testing.T) {
	repo := newFakeRepo()
	complaintID, adminID, _ := seedAssignmentFixture(repo)

	citizenID := uuid.New()
	repo.users[citizenID] = repository.User{ID: citizenID, Name: "Some Citizen", Role: identity.RoleCitizen}

	svc, _ := newService(repo)
	actor := Actor{ID: adminID, Role: identity.RoleSuperAdmin}

	_, err := svc.Assign(context.Background(), actor, complaintID, transport.AssignRequest{AssignedToID: citizenID})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v, want Validation", err)
	}
}

func TestReassignNamesBothPartiesAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	complaintID, adminID, employeeID := seedAssignmentFixture(repo)

	secondID := uuid.New()
	repo.users[secondID] = repository.User{
		ID:         secondID,
		Name:       "Nora New",
		Role:       identity.RoleDepartmentEmployee,
		Department: strptr("Sanitation Department"),
	}

	c := repo.complaints[complaintID]
	c.AssignedToID = &employeeID
	c.Status = domain.StatusInProgress
	repo.complaints[complaintID] = c

	svc, bus := newService(repo)
	actor := Actor{ID: adminID, Role: identity.RoleCityAdmin}

	_, err := svc.Reassign(context.Background(), actor, complaintID, transport.ReassignRequest{NewAssignedToID: secondID})
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}

	if repo.reassignParams.Remarks != "Reassigned from Eli Employee to Nora New" {
		t.Errorf("remarks = %q", repo.reassignParams.Remarks)
	}

	reassigned, ok := bus.published[0].(events.ComplaintReassigned)
	if !ok {
		t.Fatalf("event is %T, want ComplaintReassigned", bus.published[0])
	}
	if reassigned.PreviousAssigneeID != employeeID || reassigned.NewAssigneeID != secondID {
		t.Error("event should carry both assignees")
	}
}

func TestReassignUnassignedComplaintPublishesAssigned(t *testing.T) {
	repo := newFakeRepo()
	complaintID, adminID, employeeID := seedAssignmentFixture(repo)
	svc, bus := newService(repo)

	actor := Actor{ID: adminID, Role: identity.RoleCityAdmin}
	_, err := svc.Reassign(context.Background(), actor, complaintID, transport.ReassignRequest{NewAssignedToID: employeeID})
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}

	if !strings.HasPrefix(repo.reassignParams.Remarks, "Reassigned from unassigned") {
		t.Errorf("remarks = %q", repo.reassignParams.Remarks)
	}
	if _, ok := bus.published[0].(events.ComplaintAssigned); !ok {
		t.Errorf("event is %T, want ComplaintAssigned when there was no previous assignee", bus.published[0])
	}
}

func TestUnassignPublishesForPreviousAssignee(t *testing.T) {
	repo := newFakeRepo()
	complaintID, adminID, employeeID := seedAssignmentFixture(repo)

	c := repo.complaints[complaintID]
	c.AssignedToID = &employeeID
	repo.complaints[complaintID] = c

	svc, bus := newService(repo)
	actor := Actor{ID: adminID, Role: identity.RoleCityAdmin}

	_, err := svc.Unassign(context.Background(), actor, complaintID)
	if err != nil {
		t.Fatalf("Unassign: %v", err)
	}

	if repo.unassignParams.Remarks != "Unassigned by Asha Admin" {
		t.Errorf("remarks = %q", repo.unassignParams.Remarks)
	}
	unassigned, ok := bus.published[0].(events.ComplaintUnassigned)
	if !ok {
		t.Fatalf("event is %T, want ComplaintUnassigned", bus.published[0])
	}
	if unassigned.PreviousAssigneeID != employeeID {
		t.Error("event should carry the previous assignee")
	}
}

func TestUnassignWithoutAssigneePublishesNothing(t *testing.T) {
	repo := newFakeRepo()
	complaintID, adminID, _ := seedAssignmentFixture(repo)
	svc, bus := newService(repo)

	actor := Actor{ID: adminID, Role: identity.RoleCityAdmin}
	if _, err := svc.Unassign(context.Background(), actor, complaintID); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if len(bus.published) != 0 {
		t.Error("no event expected when the complaint had no assignee")
	}
}
