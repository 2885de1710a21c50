package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/complaints/domain"
	"citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/complaints/transport"
	"citizenconnect_backend/internal/events"
	identity "citizenconnect_backend/internal/identity/domain"
	"citizenconnect_backend/platform/apperr"
	"citizenconnect_backend/platform/logger"
	platformevents "citizenconnect_backend/platform/events"
)

// fakeRepo is an in-memory Repository double that records the parameters
// each write receives.
type fakeRepo struct {
	complaints  map[uuid.UUID]repository.Complaint
	users       map[uuid.UUID]repository.User
	employees   []repository.EmployeeLoad
	departments map[string]string

	createParams    *repository.CreateParams
	updateParams    *repository.UpdateStatusParams
	assignParams    *repository.AssignParams
	reassignParams  *repository.ReassignParams
	unassignParams  *repository.UnassignParams
	listFilter      *repository.ListFilter
	archiveFilter   *repository.ArchiveFilter
	archivePage     repository.ArchivePage
	archiveStats    repository.ArchiveStats
	deletedIDs      []uuid.UUID
	auditRowsByID   map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		complaints:    make(map[uuid.UUID]repository.Complaint),
		users:         make(map[uuid.UUID]repository.User),
		departments:   make(map[string]string),
		auditRowsByID: make(map[uuid.UUID]int),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return repository.Complaint{}, apperr.NotFound("complaint not found")
	}
	return c, nil
}

func (f *fakeRepo) List(_ context.Context, filter repository.ListFilter) ([]repository.Complaint, error) {
	f.listFilter = &filter
	return nil, nil
}

func (f *fakeRepo) ListAssignedTo(context.Context, uuid.UUID) ([]repository.Complaint, error) {
	return nil, nil
}

func (f *fakeRepo) ListStatusUpdates(context.Context, uuid.UUID) ([]repository.StatusUpdate, error) {
	return nil, nil
}

func (f *fakeRepo) ListArchived(_ context.Context, filter repository.ArchiveFilter) (repository.ArchivePage, error) {
	f.archiveFilter = &filter
	return f.archivePage, nil
}

func (f *fakeRepo) ArchiveStatistics(_ context.Context, filter repository.ArchiveFilter) (repository.ArchiveStats, error) {
	f.archiveFilter = &filter
	return f.archiveStats, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Complaint, error) {
	f.createParams = &params

	status := domain.StatusRaised
	if params.AssignedToID != nil {
		status = domain.StatusAcknowledged
	}
	c := repository.Complaint{
		ID:           uuid.New(),
		Title:        params.Title,
		Domain:       params.Domain,
		Category:     params.Category,
		Department:   params.Department,
		Status:       status,
		UserID:       params.UserID,
		AssignedToID: params.AssignedToID,
	}
	f.complaints[c.ID] = c
	if params.AssignedToID != nil {
		f.auditRowsByID[c.ID] = 1
	}
	return c, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, params repository.UpdateStatusParams) (repository.StatusTransition, error) {
	current, ok := f.complaints[id]
	if !ok {
		return repository.StatusTransition{}, apperr.NotFound("complaint not found")
	}

	check := domain.ValidateTransition(current.Status, params.NewStatus)
	if !check.Valid {
		allowed := make([]string, len(check.Allowed))
		for i, s := range check.Allowed {
			allowed[i] = string(s)
		}
		return repository.StatusTransition{}, apperr.InvalidTransition(check.Message, string(current.Status), allowed)
	}

	f.updateParams = &params
	old := current.Status
	current.Status = params.NewStatus
	f.complaints[id] = current
	f.auditRowsByID[id]++

	remarks := params.Remarks
	return repository.StatusTransition{
		Complaint: current,
		Update:    repository.StatusUpdate{ComplaintID: id, Status: params.NewStatus, Remarks: &remarks},
		OldStatus: old,
	}, nil
}

func (f *fakeRepo) Assign(_ context.Context, id uuid.UUID, params repository.AssignParams) (repository.Complaint, error) {
	f.assignParams = &params
	c := f.complaints[id]
	assignee := params.AssigneeID
	c.AssignedToID = &assignee
	if c.Status == domain.StatusRaised {
		c.Status = domain.StatusAcknowledged
	}
	if params.Department != nil {
		c.Department = params.Department
	}
	f.complaints[id] = c
	return c, nil
}

func (f *fakeRepo) Reassign(_ context.Context, id uuid.UUID, params repository.ReassignParams) (repository.Complaint, error) {
	f.reassignParams = &params
	c := f.complaints[id]
	assignee := params.NewAssigneeID
	c.AssignedToID = &assignee
	f.complaints[id] = c
	return c, nil
}

func (f *fakeRepo) Unassign(_ context.Context, id uuid.UUID, params repository.UnassignParams) (repository.Complaint, error) {
	f.unassignParams = &params
	c := f.complaints[id]
	c.AssignedToID = nil
	f.complaints[id] = c
	return c, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Complaint, error) {
	c := f.complaints[id]
	if params.Title != nil {
		c.Title = *params.Title
	}
	f.complaints[id] = c
	return c, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	delete(f.complaints, id)
	return nil
}

func (f *fakeRepo) ResolveDepartment(_ context.Context, domainName, category string) (string, error) {
	return f.departments[domainName+"|"+category], nil
}

func (f *fakeRepo) ListDomainCategories(context.Context) ([]repository.DomainCategory, error) {
	return nil, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeRepo) ListAssignableEmployees(context.Context, string) ([]repository.EmployeeLoad, error) {
	return f.employees, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

// fakeBus records published events.
type fakeBus struct {
	published []platformevents.Event
}

func (b *fakeBus) Publish(_ context.Context, event platformevents.Event) {
	b.published = append(b.published, event)
}

func (b *fakeBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *fakeBus) Subscribe(string, platformevents.Handler) {}

func newService(repo *fakeRepo) (*Service, *fakeBus) {
	bus := &fakeBus{}
	return New(repo, bus, logger.New("development")), bus
}

func strptr(s string) *string { return &s }

func TestRaiseWithoutMappingStaysRaisedAndUnassigned(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newService(repo)

	result, err := svc.Raise(context.Background(), uuid.New(), transport.RaiseComplaintRequest{
		Title:       "Street light broken",
		Description: "The light at the corner has been out for a week",
		Domain:      "Electrical",
		Category:    "Unknown Category",
	})
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	if result.Status != string(domain.StatusRaised) {
		t.Errorf("status = %s, want Raised", result.Status)
	}
	if repo.createParams.AssignedToID != nil {
		t.Error("unmapped complaint should not be auto-assigned")
	}
	if repo.createParams.Department != nil {
		t.Error("unmapped complaint should have no department")
	}
	if got := repo.auditRowsByID[result.ID]; got != 0 {
		t.Errorf("audit rows = %d, want 0 for unassigned creation", got)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	created, ok := bus.published[0].(events.ComplaintCreated)
	if !ok {
		t.Fatalf("published event is %T, want ComplaintCreated", bus.published[0])
	}
	if created.AssigneeID != nil {
		t.Error("ComplaintCreated.AssigneeID should be nil")
	}
}

func TestRaiseAutoAssignsLeastBusyEmployee(t *testing.T) {
	repo := newFakeRepo()
	repo.departments["Water|Pipe Leakage"] = "Water Department"

	busy := repository.EmployeeLoad{User: repository.User{ID: uuid.New(), Name: "Busy"}, ActiveCount: 4}
	idle := repository.EmployeeLoad{User: repository.User{ID: uuid.New(), Name: "Idle"}, ActiveCount: 1}
	repo.employees = []repository.EmployeeLoad{busy, idle}

	svc, bus := newService(repo)

	result, err := svc.Raise(context.Background(), uuid.New(), transport.RaiseComplaintRequest{
		Title:       "Pipe leaking",
		Description: "Water everywhere on the main road",
		Domain:      "Water",
		Category:    "Pipe Leakage",
	})
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	if repo.createParams.AssignedToID == nil || *repo.createParams.AssignedToID != idle.ID {
		t.Errorf("assignee = %v, want least busy %s", repo.createParams.AssignedToID, idle.ID)
	}
	if repo.createParams.Department == nil || *repo.createParams.Department != "Water Department" {
		t.Errorf("department = %v, want Water Department", repo.createParams.Department)
	}
	if result.Status != string(domain.StatusAcknowledged) {
		t.Errorf("status = %s, want Acknowledged", result.Status)
	}
	if got := repo.auditRowsByID[result.ID]; got != 1 {
		t.Errorf("audit rows = %d, want 1 for auto-assigned creation", got)
	}

	created := bus.published[0].(events.ComplaintCreated)
	if created.AssigneeID == nil || *created.AssigneeID != idle.ID {
		t.Error("ComplaintCreated should carry the auto-assignee")
	}
}

func TestSelectLeastBusy(t *testing.T) {
	lowID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	highID := uuid.MustParse("99999999-9999-9999-9999-999999999999")

	t.Run("empty", func(t *testing.T) {
		if got := selectLeastBusy(nil); got != nil {
			t.Errorf("selectLeastBusy(nil) = %v, want nil", got)
		}
	})

	t.Run("strict minimum", func(t *testing.T) {
		got := selectLeastBusy([]repository.EmployeeLoad{
			{User: repository.User{ID: highID}, ActiveCount: 0},
			{User: repository.User{ID: lowID}, ActiveCount: 3},
		})
		if got == nil || *got != highID {
			t.Errorf("selectLeastBusy = %v, want %s", got, highID)
		}
	})

	t.Run("tie breaks to lowest id", func(t *testing.T) {
		got := selectLeastBusy([]repository.EmployeeLoad{
			{User: repository.User{ID: highID}, ActiveCount: 2},
			{User: repository.User{ID: lowID}, ActiveCount: 2},
		})
		if got == nil || *got != lowID {
			t.Errorf("selectLeastBusy = %v, want %s", got, lowID)
		}
	})
}

func TestUpdateStatusDeniedForCitizen(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	_, err := svc.UpdateStatus(context.Background(), Actor{ID: uuid.New(), Role: identity.RoleCitizen}, uuid.New(), transport.UpdateStatusRequest{NewStatus: "Acknowledged"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("err = %v, want Forbidden", err)
	}
}

func TestUpdateStatusDefaultRemarksAndEvent(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	citizen := uuid.New()
	repo.complaints[id] = repository.Complaint{ID: id, UserID: citizen, Status: domain.StatusInProgress}

	svc, bus := newService(repo)
	actor := Actor{ID: uuid.New(), Role: identity.RoleCityAdmin}

	result, err := svc.UpdateStatus(context.Background(), actor, id, transport.UpdateStatusRequest{NewStatus: "Resolved"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if repo.updateParams.Remarks != "Resolved updated by CITY_ADMIN" {
		t.Errorf("remarks = %q", repo.updateParams.Remarks)
	}
	if result.Status != "Resolved" {
		t.Errorf("status = %s, want Resolved", result.Status)
	}
	if result.ProgressPercentage != 80 {
		t.Errorf("progress = %d, want 80", result.ProgressPercentage)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	changed := bus.published[0].(events.ComplaintStatusChanged)
	if changed.OldStatus != "InProgress" || changed.NewStatus != "Resolved" {
		t.Errorf("event statuses = %s -> %s", changed.OldStatus, changed.NewStatus)
	}
	if changed.CitizenID != citizen {
		t.Error("event should carry the complaint owner")
	}
}

func TestUpdateStatusInvalidTransitionCarriesAllowedSet(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.complaints[id] = repository.Complaint{ID: id, Status: domain.StatusResolved}

	svc, bus := newService(repo)
	actor := Actor{ID: uuid.New(), Role: identity.RoleSuperAdmin}

	_, err := svc.UpdateStatus(context.Background(), actor, id, transport.UpdateStatusRequest{NewStatus: "Acknowledged"})
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}

	details, ok := err.(*apperr.Error).Details.(apperr.TransitionDetails)
	if !ok {
		t.Fatalf("details are %T, want TransitionDetails", err.(*apperr.Error).Details)
	}
	if details.CurrentStatus != "Resolved" {
		t.Errorf("currentStatus = %s", details.CurrentStatus)
	}
	want := map[string]bool{"Closed": true, "InProgress": true}
	if len(details.AllowedNextStatuses) != 2 || !want[details.AllowedNextStatuses[0]] || !want[details.AllowedNextStatuses[1]] {
		t.Errorf("allowedNextStatuses = %v, want Closed and InProgress", details.AllowedNextStatuses)
	}

	if len(bus.published) != 0 {
		t.Error("no event should be published for a rejected transition")
	}
}

func TestUpdateOnlyWhileRaised(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	id := uuid.New()
	repo.complaints[id] = repository.Complaint{ID: id, UserID: owner, Status: domain.StatusAcknowledged}

	svc, _ := newService(repo)

	_, err := svc.Update(context.Background(), Actor{ID: owner, Role: identity.RoleCitizen}, id, transport.UpdateComplaintRequest{Title: strptr("New title")})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("err = %v, want Conflict", err)
	}
}

func TestDeleteOwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	id := uuid.New()
	repo.complaints[id] = repository.Complaint{ID: id, UserID: owner, Status: domain.StatusRaised}

	svc, _ := newService(repo)

	if err := svc.Delete(context.Background(), Actor{ID: uuid.New(), Role: identity.RoleCitizen}, id); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("err = %v, want Forbidden", err)
	}

	if err := svc.Delete(context.Background(), Actor{ID: owner, Role: identity.RoleCitizen}, id); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
	if len(repo.deletedIDs) != 1 {
		t.Error("complaint should be deleted")
	}
}

func TestListRoleScoping(t *testing.T) {
	cases := []struct {
		name  string
		actor Actor
		check func(t *testing.T, filter repository.ListFilter, actor Actor)
	}{
		{
			name:  "citizen sees own",
			actor: Actor{ID: uuid.New(), Role: identity.RoleCitizen},
			check: func(t *testing.T, filter repository.ListFilter, actor Actor) {
				if filter.UserID == nil || *filter.UserID != actor.ID {
					t.Error("citizen filter should pin user_id")
				}
			},
		},
		{
			name:  "employee sees assigned",
			actor: Actor{ID: uuid.New(), Role: identity.RoleDepartmentEmployee},
			check: func(t *testing.T, filter repository.ListFilter, actor Actor) {
				if filter.AssignedToID == nil || *filter.AssignedToID != actor.ID {
					t.Error("employee filter should pin assigned_to_id")
				}
			},
		},
		{
			name:  "department admin sees department",
			actor: Actor{ID: uuid.New(), Role: identity.RoleDepartmentAdmin, Department: "Water Department"},
			check: func(t *testing.T, filter repository.ListFilter, _ Actor) {
				if filter.Department != "Water Department" {
					t.Errorf("department = %q", filter.Department)
				}
			},
		},
		{
			name:  "ward officer sees ward",
			actor: Actor{ID: uuid.New(), Role: identity.RoleWardOfficer, Ward: "Ward 12"},
			check: func(t *testing.T, filter repository.ListFilter, _ Actor) {
				if filter.Ward != "Ward 12" {
					t.Errorf("ward = %q", filter.Ward)
				}
			},
		},
		{
			name:  "mayor sees all",
			actor: Actor{ID: uuid.New(), Role: identity.RoleMayor},
			check: func(t *testing.T, filter repository.ListFilter, _ Actor) {
				if filter.UserID != nil || filter.AssignedToID != nil || filter.Department != "" || filter.Ward != "" {
					t.Error("city-level filter should be unscoped")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc, _ := newService(repo)

			if _, err := svc.List(context.Background(), tc.actor, transport.ListComplaintsRequest{}); err != nil {
				t.Fatalf("List: %v", err)
			}
			if repo.listFilter == nil {
				t.Fatal("repository was not queried")
			}
			tc.check(t, *repo.listFilter, tc.actor)
		})
	}
}
