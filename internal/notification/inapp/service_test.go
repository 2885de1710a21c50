package inapp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/notification/realtime"
)

type fakeStore struct {
	created   []CreateParams
	createErr error
	items     []Notification
	markedAll []uuid.UUID
}

func (f *fakeStore) Create(_ context.Context, p CreateParams) (Notification, error) {
	if f.createErr != nil {
		return Notification{}, f.createErr
	}
	f.created = append(f.created, p)
	return Notification{ID: uuid.New(), UserID: p.UserID, Message: p.Message, ComplaintID: p.ComplaintID}, nil
}

func (f *fakeStore) ListForUser(_ context.Context, _ uuid.UUID) ([]Notification, error) {
	return f.items, nil
}

func (f *fakeStore) MarkRead(_ context.Context, userID, id uuid.UUID) (Notification, error) {
	return Notification{ID: id, UserID: userID, IsRead: true}, nil
}

func (f *fakeStore) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	f.markedAll = append(f.markedAll, userID)
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

func TestSendPersistsThenPushes(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{}
	svc := NewService(store, pusher, nil)

	userID := uuid.New()
	complaintID := uuid.New()
	err := svc.Send(context.Background(), SendParams{
		UserID:      userID,
		Message:     "Your complaint status has been updated",
		ComplaintID: &complaintID,
		EventType:   "complaint-status-updated",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(store.created))
	}
	if len(pusher.published) != 1 {
		t.Fatalf("pushed %d events, want 1", len(pusher.published))
	}
	push := pusher.published[0]
	if push.Room != realtime.UserRoom(userID) {
		t.Fatalf("pushed to room %q, want %q", push.Room, realtime.UserRoom(userID))
	}
	if push.Event.Type != "complaint-status-updated" {
		t.Fatalf("event type = %q", push.Event.Type)
	}
}

func TestSendSkipsPushWhenPersistFails(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db down")}
	pusher := &fakePusher{}
	svc := NewService(store, pusher, nil)

	err := svc.Send(context.Background(), SendParams{UserID: uuid.New(), Message: "x"})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}
	if len(pusher.published) != 0 {
		t.Fatalf("pushed %d events after failed persist, want 0", len(pusher.published))
	}
}

func TestSendDefaultsEventType(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{}
	svc := NewService(store, pusher, nil)

	if err := svc.Send(context.Background(), SendParams{UserID: uuid.New(), Message: "x"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := pusher.published[0].Event.Type; got != "new-notification" {
		t.Fatalf("event type = %q, want new-notification", got)
	}
}

func TestSendWithoutHubStillPersists(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, nil)

	if err := svc.Send(context.Background(), SendParams{UserID: uuid.New(), Message: "x"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(store.created))
	}
}

func TestListCountsUnread(t *testing.T) {
	store := &fakeStore{items: []Notification{
		{IsRead: false},
		{IsRead: false},
		{IsRead: true},
	}}
	svc := NewService(store, nil, nil)

	result, err := svc.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if result.UnreadCount != 2 {
		t.Fatalf("unreadCount = %d, want 2", result.UnreadCount)
	}
}

func TestListEmptyFeedIsNotNil(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil)

	result, err := svc.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Notifications == nil {
		t.Fatal("expected empty slice, got nil")
	}
}
