package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	comprepo "citizenconnect_backend/internal/complaints/repository"
	"citizenconnect_backend/internal/feedback/repository"
	"citizenconnect_backend/internal/feedback/transport"
	"citizenconnect_backend/platform/apperr"
	platformevents "citizenconnect_backend/platform/events"
)

type fakeRepo struct {
	created    []repository.CreateParams
	existing   map[uuid.UUID]repository.Feedback
	allEntries []repository.Feedback
	stats      repository.RatingStats
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateParams) (repository.Feedback, error) {
	if _, ok := f.existing[p.ComplaintID]; ok {
		return repository.Feedback{}, apperr.Conflict("feedback already submitted for this complaint")
	}
	f.created = append(f.created, p)
	return repository.Feedback{
		ID:          uuid.New(),
		ComplaintID: p.ComplaintID,
		UserID:      p.UserID,
		Rating:      p.Rating,
		Comment:     p.Comment,
		WasResolved: p.WasResolved,
	}, nil
}

func (f *fakeRepo) Update(_ context.Context, complaintID, userID uuid.UUID, p repository.UpdateParams) (repository.Feedback, error) {
	existing, ok := f.existing[complaintID]
	if !ok || existing.UserID != userID {
		return repository.Feedback{}, apperr.NotFound("feedback not found")
	}
	if p.Rating != nil {
		existing.Rating = *p.Rating
	}
	if p.Comment != nil {
		existing.Comment = p.Comment
	}
	if p.WasResolved != nil {
		existing.WasResolved = *p.WasResolved
	}
	return existing, nil
}

func (f *fakeRepo) Delete(_ context.Context, complaintID, userID uuid.UUID) error {
	existing, ok := f.existing[complaintID]
	if !ok || existing.UserID != userID {
		return apperr.NotFound("feedback not found")
	}
	delete(f.existing, complaintID)
	return nil
}

func (f *fakeRepo) GetByComplaint(_ context.Context, complaintID uuid.UUID) (repository.Feedback, error) {
	existing, ok := f.existing[complaintID]
	if !ok {
		return repository.Feedback{}, apperr.NotFound("no feedback found for this complaint")
	}
	return existing, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]repository.Feedback, error) {
	return f.allEntries, nil
}

func (f *fakeRepo) RatingStats(_ context.Context, _ repository.RatingFilter) (repository.RatingStats, error) {
	return f.stats, nil
}

func (f *fakeRepo) TopRatedDepartments(_ context.Context) ([]repository.DepartmentScore, error) {
	return nil, nil
}

type fakeComplaints struct {
	complaints map[uuid.UUID]comprepo.Complaint
}

func (f *fakeComplaints) GetByID(_ context.Context, id uuid.UUID) (comprepo.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return comprepo.Complaint{}, apperr.NotFound("complaint not found")
	}
	return c, nil
}

type fakeBus struct {
	published []platformevents.Event
}

func (f *fakeBus) Publish(_ context.Context, event platformevents.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event platformevents.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, platformevents.Handler) {}

func TestSubmitRequiresOwnership(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	complaintID := uuid.New()
	complaints := &fakeComplaints{complaints: map[uuid.UUID]comprepo.Complaint{
		complaintID: {ID: complaintID, UserID: owner, Status: "Resolved"},
	}}
	svc := New(&fakeRepo{}, complaints, &fakeBus{}, nil)

	_, err := svc.Submit(context.Background(), stranger, complaintID, transport.SubmitFeedbackRequest{Rating: 5})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestSubmitRequiresResolvedOrClosed(t *testing.T) {
	owner := uuid.New()
	complaintID := uuid.New()
	complaints := &fakeComplaints{complaints: map[uuid.UUID]comprepo.Complaint{
		complaintID: {ID: complaintID, UserID: owner, Status: "InProgress"},
	}}
	svc := New(&fakeRepo{}, complaints, &fakeBus{}, nil)

	_, err := svc.Submit(context.Background(), owner, complaintID, transport.SubmitFeedbackRequest{Rating: 4})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSubmitPublishesEventWithAssignee(t *testing.T) {
	owner := uuid.New()
	assignee := uuid.New()
	complaintID := uuid.New()
	complaints := &fakeComplaints{complaints: map[uuid.UUID]comprepo.Complaint{
		complaintID: {ID: complaintID, UserID: owner, Status: "Resolved", AssignedToID: &assignee},
	}}
	repo := &fakeRepo{}
	bus := &fakeBus{}
	svc := New(repo, complaints, bus, nil)

	resp, err := svc.Submit(context.Background(), owner, complaintID, transport.SubmitFeedbackRequest{Rating: 4})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.Rating != 4 {
		t.Fatalf("rating = %d, want 4", resp.Rating)
	}
	if !resp.WasResolved {
		t.Fatal("wasResolved should default to true")
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	event, ok := bus.published[0].(interface{ EventName() string })
	if !ok || event.EventName() != "feedback.submitted" {
		t.Fatalf("published event = %#v", bus.published[0])
	}
}

func TestSubmitTwiceConflicts(t *testing.T) {
	owner := uuid.New()
	complaintID := uuid.New()
	complaints := &fakeComplaints{complaints: map[uuid.UUID]comprepo.Complaint{
		complaintID: {ID: complaintID, UserID: owner, Status: "Closed"},
	}}
	repo := &fakeRepo{existing: map[uuid.UUID]repository.Feedback{
		complaintID: {ComplaintID: complaintID, UserID: owner, Rating: 3},
	}}
	svc := New(repo, complaints, &fakeBus{}, nil)

	_, err := svc.Submit(context.Background(), owner, complaintID, transport.SubmitFeedbackRequest{Rating: 5})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestUpdateOnlyByOwner(t *testing.T) {
	owner := uuid.New()
	complaintID := uuid.New()
	repo := &fakeRepo{existing: map[uuid.UUID]repository.Feedback{
		complaintID: {ComplaintID: complaintID, UserID: owner, Rating: 2},
	}}
	svc := New(repo, &fakeComplaints{}, &fakeBus{}, nil)

	rating := 5
	_, err := svc.Update(context.Background(), uuid.New(), complaintID, transport.UpdateFeedbackRequest{Rating: &rating})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	resp, err := svc.Update(context.Background(), owner, complaintID, transport.UpdateFeedbackRequest{Rating: &rating})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Rating != 5 {
		t.Fatalf("rating = %d, want 5", resp.Rating)
	}
}

func TestListAllRestrictedToCityRoles(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeComplaints{}, &fakeBus{}, nil)

	if _, err := svc.ListAll(context.Background(), "DEPARTMENT_ADMIN"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if _, err := svc.ListAll(context.Background(), "SUPER_ADMIN"); err != nil {
		t.Fatalf("ListAll as SUPER_ADMIN: %v", err)
	}
}

func TestRatingStatsEchoesFilters(t *testing.T) {
	repo := &fakeRepo{stats: repository.RatingStats{
		AverageRating:    4.5,
		TotalFeedbacks:   2,
		Distribution:     map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1},
		SatisfactionRate: 100,
	}}
	svc := New(repo, &fakeComplaints{}, &fakeBus{}, nil)

	resp, err := svc.RatingStats(context.Background(), transport.RatingFilterRequest{Department: "Water Department"})
	if err != nil {
		t.Fatalf("RatingStats: %v", err)
	}
	if resp.AverageRating != 4.5 {
		t.Fatalf("averageRating = %v", resp.AverageRating)
	}
	if resp.Filters.Department != "Water Department" {
		t.Fatalf("department filter = %q", resp.Filters.Department)
	}
	if resp.Filters.Category != "All" || resp.Filters.Domain != "All" {
		t.Fatalf("unfiltered dimensions should echo All, got %+v", resp.Filters)
	}
}
