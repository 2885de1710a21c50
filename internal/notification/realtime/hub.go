// Package realtime provides Server-Sent Events support for live
// complaint notifications. Connections join rooms and events published
// to a room reach every connected subscriber.
package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"citizenconnect_backend/platform/httpkit"
	"citizenconnect_backend/platform/logger"
)

var errBufferFull = errors.New("client event buffer full")

// Event is a real-time event payload pushed to subscribers.
type Event struct {
	Type      string      `json:"type"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// UserRoom addresses a single user's connections.
func UserRoom(id uuid.UUID) string { return "user:" + id.String() }

// RoleRoom addresses every connected user holding a role.
func RoleRoom(role string) string { return "role:" + role }

// ComplaintRoom addresses watchers of a single complaint.
func ComplaintRoom(id uuid.UUID) string { return "complaint:" + id.String() }

// client represents one SSE connection and the rooms it joined.
type client struct {
	rooms  []string
	events chan Event
	closed bool // guarded by the hub mutex
}

// Hub manages SSE connections and room broadcasting.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
	log   *logger.Logger
}

// NewHub creates a new real-time hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		log:   log,
	}
}

func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range c.rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*client]struct{})
		}
		h.rooms[room][c] = struct{}{}
	}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range c.rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	// Close may already have torn the connection down during shutdown.
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Publish sends an event to every connection in the room. A connection
// that cannot keep up has the event dropped rather than blocking the
// publisher.
func (h *Hub) Publish(room string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// The sends are non-blocking, so they stay under the read lock.
	// Channels close only under the write lock, which keeps a send from
	// racing a shutdown.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		if c.closed {
			continue
		}
		select {
		case c.events <- event:
		default:
			if h.log != nil {
				h.log.DeliveryDropped(room, event.Type, errBufferFull)
			}
		}
	}
}

// Subscribers returns the number of connections in a room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Handler returns a Gin handler that upgrades the request to an SSE
// stream. The connection joins the caller's personal and role rooms,
// plus one complaint room when the complaint query parameter is set.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return
		}

		rooms := []string{UserRoom(identity.UserID())}
		if identity.Role() != "" {
			rooms = append(rooms, RoleRoom(identity.Role()))
		}
		if watch := c.Query("complaint"); watch != "" {
			complaintID, err := uuid.Parse(watch)
			if err != nil {
				httpkit.Error(c, http.StatusBadRequest, "invalid complaint id", nil)
				return
			}
			rooms = append(rooms, ComplaintRoom(complaintID))
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			rooms:  rooms,
			events: make(chan Event, 32),
		}
		h.addClient(cl)
		defer h.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": identity.UserID()})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(event.Type, string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.rooms {
		for c := range clients {
			if c.closed {
				continue
			}
			c.closed = true
			close(c.events)
		}
	}
	h.rooms = make(map[string]map[*client]struct{})
}
