package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPublishReachesRoomMembers(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()

	cl := &client{
		rooms:  []string{UserRoom(userID)},
		events: make(chan Event, 4),
	}
	hub.addClient(cl)
	defer hub.removeClient(cl)

	hub.Publish(UserRoom(userID), Event{Type: "new-notification", Message: "hello"})

	select {
	case got := <-cl.events:
		if got.Type != "new-notification" {
			t.Fatalf("event type = %q, want new-notification", got.Type)
		}
		if got.Message != "hello" {
			t.Fatalf("event message = %q, want hello", got.Message)
		}
		if got.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be stamped on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishSkipsOtherRooms(t *testing.T) {
	hub := NewHub(nil)

	cl := &client{
		rooms:  []string{RoleRoom("CITY_ADMIN")},
		events: make(chan Event, 4),
	}
	hub.addClient(cl)
	defer hub.removeClient(cl)

	hub.Publish(RoleRoom("SUPER_ADMIN"), Event{Type: "new-complaint"})

	select {
	case got := <-cl.events:
		t.Fatalf("unexpected event %q delivered across rooms", got.Type)
	default:
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()

	cl := &client{
		rooms:  []string{UserRoom(userID)},
		events: make(chan Event, 1),
	}
	hub.addClient(cl)
	defer hub.removeClient(cl)

	hub.Publish(UserRoom(userID), Event{Type: "first"})
	hub.Publish(UserRoom(userID), Event{Type: "dropped"})

	got := <-cl.events
	if got.Type != "first" {
		t.Fatalf("event type = %q, want first", got.Type)
	}
	select {
	case extra := <-cl.events:
		t.Fatalf("expected overflow event to be dropped, got %q", extra.Type)
	default:
	}
}

func TestRemoveClientLeavesAllRooms(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()
	complaintID := uuid.New()

	cl := &client{
		rooms:  []string{UserRoom(userID), ComplaintRoom(complaintID)},
		events: make(chan Event, 1),
	}
	hub.addClient(cl)

	if got := hub.Subscribers(ComplaintRoom(complaintID)); got != 1 {
		t.Fatalf("subscribers = %d, want 1", got)
	}

	hub.removeClient(cl)

	if got := hub.Subscribers(UserRoom(userID)); got != 0 {
		t.Fatalf("subscribers after remove = %d, want 0", got)
	}
	if got := hub.Subscribers(ComplaintRoom(complaintID)); got != 0 {
		t.Fatalf("complaint room subscribers after remove = %d, want 0", got)
	}
}

func TestCloseThenRemoveClientDoesNotPanic(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()

	cl := &client{
		rooms:  []string{UserRoom(userID)},
		events: make(chan Event, 4),
	}
	hub.addClient(cl)

	// Graceful shutdown closes the hub first; the connection handler's
	// deferred cleanup still runs afterwards and must not close the
	// channel a second time.
	hub.Close()
	hub.removeClient(cl)

	if _, ok := <-cl.events; ok {
		t.Fatal("expected event channel to be closed")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()

	cl := &client{
		rooms:  []string{UserRoom(userID)},
		events: make(chan Event, 4),
	}
	hub.addClient(cl)
	hub.Close()

	hub.Publish(UserRoom(userID), Event{Type: "new-notification"})

	if _, ok := <-cl.events; ok {
		t.Fatal("expected no event after shutdown")
	}
}

func TestRoomNames(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	if got := UserRoom(id); got != "user:11111111-1111-1111-1111-111111111111" {
		t.Fatalf("UserRoom = %q", got)
	}
	if got := RoleRoom("MAYOR"); got != "role:MAYOR" {
		t.Fatalf("RoleRoom = %q", got)
	}
	if got := ComplaintRoom(id); got != "complaint:11111111-1111-1111-1111-111111111111" {
		t.Fatalf("ComplaintRoom = %q", got)
	}
}
