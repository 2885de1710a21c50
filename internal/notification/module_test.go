package notification

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/events"
	identitytransport "citizenconnect_backend/internal/identity/transport"
	"citizenconnect_backend/internal/notification/inapp"
	"citizenconnect_backend/internal/notification/realtime"
)

type fakeSender struct {
	sent []inapp.SendParams
}

func (f *fakeSender) Send(_ context.Context, p inapp.SendParams) error {
	f.sent = append(f.sent, p)
	return nil
}

type fakePusher struct {
	published []struct {
		Room  string
		Event realtime.Event
	}
}

func (f *fakePusher) Publish(room string, event realtime.Event) {
	f.published = append(f.published, struct {
		Room  string
		Event realtime.Event
	}{room, event})
}

type fakeDirectory struct {
	names    map[uuid.UUID]string
	adminIDs []uuid.UUID
}

func (f *fakeDirectory) Profile(_ context.Context, id uuid.UUID) (identitytransport.UserResponse, error) {
	return identitytransport.UserResponse{ID: id, Name: f.names[id]}, nil
}

func (f *fakeDirectory) AdminRecipientIDs(_ context.Context) ([]uuid.UUID, error) {
	return f.adminIDs, nil
}

func newTestModule(sender *fakeSender, pusher *fakePusher, dir *fakeDirectory) *Module {
	return &Module{sender: sender, hub: pusher, directory: dir}
}

func TestComplaintCreatedNotifiesAdmins(t *testing.T) {
	citizenID := uuid.New()
	adminA := uuid.New()
	adminB := uuid.New()

	sender := &fakeSender{}
	pusher := &fakePusher{}
	dir := &fakeDirectory{
		names:    map[uuid.UUID]string{citizenID: "Ravi Citizen"},
		adminIDs: []uuid.UUID{adminA, adminB},
	}
	m := newTestModule(sender, pusher, dir)

	event := events.ComplaintCreated{
		ComplaintID: uuid.New(),
		CitizenID:   citizenID,
		Title:       "Streetlight out",
		Department:  "Electrical Department",
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(pusher.published) != 2 {
		t.Fatalf("published %d broadcasts, want 2", len(pusher.published))
	}
	rooms := map[string]bool{}
	for _, p := range pusher.published {
		rooms[p.Room] = true
		if p.Event.Message != "New complaint raised by Ravi Citizen" {
			t.Fatalf("broadcast message = %q", p.Event.Message)
		}
	}
	if !rooms["role:CITY_ADMIN"] || !rooms["role:SUPER_ADMIN"] {
		t.Fatalf("broadcast rooms = %v", rooms)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("persisted %d notifications, want 2", len(sender.sent))
	}
	for _, s := range sender.sent {
		if !strings.Contains(s.Message, `("Streetlight out") raised by a citizen.`) {
			t.Fatalf("admin notification message = %q", s.Message)
		}
		if s.ComplaintID == nil || *s.ComplaintID != event.ComplaintID {
			t.Fatal("admin notification missing complaint reference")
		}
	}
}

func TestComplaintCreatedNotifiesAutoAssignee(t *testing.T) {
	assigneeID := uuid.New()
	sender := &fakeSender{}
	m := newTestModule(sender, &fakePusher{}, &fakeDirectory{})

	event := events.ComplaintCreated{
		ComplaintID: uuid.New(),
		CitizenID:   uuid.New(),
		Title:       "Water leakage",
		AssigneeID:  &assigneeID,
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var found bool
	for _, s := range sender.sent {
		if s.UserID == assigneeID {
			found = true
			if s.Message != `You have been auto-assigned a new complaint: "Water leakage"` {
				t.Fatalf("assignee message = %q", s.Message)
			}
			if s.EventType != "complaint-assigned" {
				t.Fatalf("assignee event type = %q", s.EventType)
			}
		}
	}
	if !found {
		t.Fatal("auto-assignee was not notified")
	}
}

func TestStatusChangedNotifiesOwnerAndWatchers(t *testing.T) {
	citizenID := uuid.New()
	sender := &fakeSender{}
	pusher := &fakePusher{}
	m := newTestModule(sender, pusher, &fakeDirectory{})

	event := events.ComplaintStatusChanged{
		ComplaintID: uuid.New(),
		CitizenID:   citizenID,
		OldStatus:   "Acknowledged",
		NewStatus:   "In Progress",
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("persisted %d notifications, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.UserID != citizenID {
		t.Fatal("status notification went to the wrong user")
	}
	if got.Message != `Your complaint status has been updated to "In Progress"` {
		t.Fatalf("owner message = %q", got.Message)
	}
	if got.EventType != "complaint-status-updated" {
		t.Fatalf("event type = %q", got.EventType)
	}

	if len(pusher.published) != 1 {
		t.Fatalf("published %d broadcasts, want 1", len(pusher.published))
	}
	if pusher.published[0].Room != realtime.ComplaintRoom(event.ComplaintID) {
		t.Fatalf("broadcast room = %q", pusher.published[0].Room)
	}
	if pusher.published[0].Event.Type != "status-changed" {
		t.Fatalf("broadcast type = %q", pusher.published[0].Event.Type)
	}
}

func TestAssignedNotifiesAssigneeAndOwner(t *testing.T) {
	assigneeID := uuid.New()
	citizenID := uuid.New()
	sender := &fakeSender{}
	dir := &fakeDirectory{names: map[uuid.UUID]string{assigneeID: "Eli Employee"}}
	m := newTestModule(sender, &fakePusher{}, dir)

	event := events.ComplaintAssigned{
		ComplaintID: uuid.New(),
		CitizenID:   citizenID,
		AssigneeID:  assigneeID,
		Title:       "Pothole on main road",
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("persisted %d notifications, want 2", len(sender.sent))
	}
	byUser := map[uuid.UUID]inapp.SendParams{}
	for _, s := range sender.sent {
		byUser[s.UserID] = s
	}
	if byUser[assigneeID].Message != `You have been assigned a new complaint: "Pothole on main road"` {
		t.Fatalf("assignee message = %q", byUser[assigneeID].Message)
	}
	if byUser[citizenID].Message != "Your complaint has been assigned to Eli Employee" {
		t.Fatalf("owner message = %q", byUser[citizenID].Message)
	}
}

func TestReassignedNotifiesBothAssignees(t *testing.T) {
	previousID := uuid.New()
	newID := uuid.New()
	sender := &fakeSender{}
	m := newTestModule(sender, &fakePusher{}, &fakeDirectory{})

	event := events.ComplaintReassigned{
		ComplaintID:        uuid.New(),
		CitizenID:          uuid.New(),
		PreviousAssigneeID: previousID,
		NewAssigneeID:      newID,
		Title:              "Garbage overflow",
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	byUser := map[uuid.UUID]inapp.SendParams{}
	for _, s := range sender.sent {
		byUser[s.UserID] = s
	}
	if byUser[newID].Message != `You have been assigned complaint: "Garbage overflow"` {
		t.Fatalf("new assignee message = %q", byUser[newID].Message)
	}
	if byUser[previousID].Message != `Complaint "Garbage overflow" has been reassigned` {
		t.Fatalf("previous assignee message = %q", byUser[previousID].Message)
	}
	if byUser[previousID].EventType != "complaint-unassigned" {
		t.Fatalf("previous assignee event type = %q", byUser[previousID].EventType)
	}
}

func TestUnassignedNotifiesPreviousAssignee(t *testing.T) {
	previousID := uuid.New()
	sender := &fakeSender{}
	m := newTestModule(sender, &fakePusher{}, &fakeDirectory{})

	event := events.ComplaintUnassigned{
		ComplaintID:        uuid.New(),
		CitizenID:          uuid.New(),
		PreviousAssigneeID: previousID,
		Title:              "Broken pipeline",
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("persisted %d notifications, want 1", len(sender.sent))
	}
	if sender.sent[0].Message != `Complaint "Broken pipeline" has been unassigned from you` {
		t.Fatalf("message = %q", sender.sent[0].Message)
	}
}

func TestFeedbackNotifiesAssignee(t *testing.T) {
	assigneeID := uuid.New()
	sender := &fakeSender{}
	m := newTestModule(sender, &fakePusher{}, &fakeDirectory{})

	event := events.FeedbackSubmitted{
		ComplaintID: uuid.New(),
		CitizenID:   uuid.New(),
		AssigneeID:  &assigneeID,
		Rating:      4,
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("persisted %d notifications, want 1", len(sender.sent))
	}
	if sender.sent[0].Message != "New feedback received: 4 stars" {
		t.Fatalf("message = %q", sender.sent[0].Message)
	}
	if sender.sent[0].EventType != "feedback-received" {
		t.Fatalf("event type = %q", sender.sent[0].EventType)
	}
}

func TestFeedbackWithoutAssigneeIsSilent(t *testing.T) {
	sender := &fakeSender{}
	m := newTestModule(sender, &fakePusher{}, &fakeDirectory{})

	event := events.FeedbackSubmitted{
		ComplaintID: uuid.New(),
		CitizenID:   uuid.New(),
		Rating:      5,
	}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("persisted %d notifications, want 0", len(sender.sent))
	}
}
