package inapp

import (
	"context"

	"github.com/google/uuid"

	"citizenconnect_backend/internal/notification/realtime"
	"citizenconnect_backend/platform/logger"
)

// Store persists notifications.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// Pusher delivers real-time events to connected clients.
type Pusher interface {
	Publish(room string, event realtime.Event)
}

// Service persists in-app notifications and pushes them to connected
// clients. Persistence is the source of truth; a failed push is logged
// and never surfaces to the caller.
type Service struct {
	repo Store
	hub  Pusher
	log  *logger.Logger
}

// NewService creates a new in-app notification service.
func NewService(repo Store, hub Pusher, log *logger.Logger) *Service {
	return &Service{repo: repo, hub: hub, log: log}
}

// SendParams describes a notification to deliver.
type SendParams struct {
	UserID      uuid.UUID
	Message     string
	ComplaintID *uuid.UUID
	EventType   string
}

// Send persists the notification, then pushes it to the user's live
// connections.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	if p.EventType == "" {
		p.EventType = "new-notification"
	}

	notif, err := s.repo.Create(ctx, CreateParams{
		UserID:      p.UserID,
		Message:     p.Message,
		ComplaintID: p.ComplaintID,
	})
	if err != nil {
		if s.log != nil {
			s.log.Error("failed to persist notification", "error", err, "userId", p.UserID)
		}
		return err
	}

	if s.hub != nil {
		s.hub.Publish(realtime.UserRoom(p.UserID), realtime.Event{
			Type:    p.EventType,
			Message: p.Message,
			Data:    notif,
		})
	}
	return nil
}

// ListResult is a user's notification feed with unread bookkeeping.
type ListResult struct {
	Count         int            `json:"count"`
	UnreadCount   int            `json:"unreadCount"`
	Notifications []Notification `json:"notifications"`
}

// List retrieves the user's notifications, unread first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (ListResult, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}

	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	if items == nil {
		items = []Notification{}
	}

	return ListResult{
		Count:         len(items),
		UnreadCount:   unread,
		Notifications: items,
	}, nil
}

// MarkRead marks a single notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (Notification, error) {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
