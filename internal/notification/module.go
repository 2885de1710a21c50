// Package notification subscribes to complaint domain events and fans
// them out to the affected users: persisted in-app notifications plus
// real-time pushes to connected clients. Domain modules publish events
// and never talk to delivery channels directly.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/internal/events"
	apphttp "citizenconnect_backend/internal/http"
	identitydomain "citizenconnect_backend/internal/identity/domain"
	identitytransport "citizenconnect_backend/internal/identity/transport"
	notifhandler "citizenconnect_backend/internal/notification/handler"
	"citizenconnect_backend/internal/notification/inapp"
	"citizenconnect_backend/internal/notification/realtime"
	"citizenconnect_backend/platform/logger"
)

// Sender persists a notification and pushes it to its recipient.
type Sender interface {
	Send(ctx context.Context, p inapp.SendParams) error
}

// Pusher broadcasts events to real-time rooms.
type Pusher interface {
	Publish(room string, event realtime.Event)
}

// Directory resolves users for fan-out: display names for message
// text and the administrator audience for city-wide broadcasts.
type Directory interface {
	Profile(ctx context.Context, id uuid.UUID) (identitytransport.UserResponse, error)
	AdminRecipientIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender    Sender
	hub       Pusher
	directory Directory
	log       *logger.Logger

	inApp   *inapp.Service
	handler *notifhandler.HTTPHandler
	rtHub   *realtime.Hub
}

// New creates the notification module.
func New(pool *pgxpool.Pool, hub *realtime.Hub, directory Directory, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	svc := inapp.NewService(repo, hub, log)

	return &Module{
		sender:    svc,
		hub:       hub,
		directory: directory,
		log:       log,
		inApp:     svc,
		handler:   notifhandler.NewHTTPHandler(svc),
		rtHub:     hub,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers the notification feed and the SSE stream.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	m.handler.RegisterRoutes(notifications)

	if m.rtHub != nil {
		notifications.GET("/stream", m.rtHub.Handler())
	}
}

// InAppService exposes the in-app notification service for integration
// points.
func (m *Module) InAppService() *inapp.Service { return m.inApp }

// RegisterHandlers subscribes to all relevant domain events on the bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ComplaintCreated{}.EventName(), m)
	bus.Subscribe(events.ComplaintStatusChanged{}.EventName(), m)
	bus.Subscribe(events.ComplaintAssigned{}.EventName(), m)
	bus.Subscribe(events.ComplaintReassigned{}.EventName(), m)
	bus.Subscribe(events.ComplaintUnassigned{}.EventName(), m)
	bus.Subscribe(events.FeedbackSubmitted{}.EventName(), m)

	if m.log != nil {
		m.log.Info("notification module registered event handlers")
	}
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ComplaintCreated:
		return m.handleComplaintCreated(ctx, e)
	case events.ComplaintStatusChanged:
		return m.handleStatusChanged(ctx, e)
	case events.ComplaintAssigned:
		return m.handleAssigned(ctx, e)
	case events.ComplaintReassigned:
		return m.handleReassigned(ctx, e)
	case events.ComplaintUnassigned:
		return m.handleUnassigned(ctx, e)
	case events.FeedbackSubmitted:
		return m.handleFeedbackSubmitted(ctx, e)
	default:
		if m.log != nil {
			m.log.Warn("unhandled event type", "event", event.EventName())
		}
		return nil
	}
}

// handleComplaintCreated alerts city administrators about the new
// complaint and, when auto-assignment succeeded, the assignee.
func (m *Module) handleComplaintCreated(ctx context.Context, e events.ComplaintCreated) error {
	citizenName := m.resolveName(ctx, e.CitizenID, "a citizen")

	broadcast := realtime.Event{
		Type:    "new-complaint",
		Message: fmt.Sprintf("New complaint raised by %s", citizenName),
		Data:    e,
	}
	m.push(realtime.RoleRoom(identitydomain.RoleCityAdmin), broadcast)
	m.push(realtime.RoleRoom(identitydomain.RoleSuperAdmin), broadcast)

	var errs []error

	adminIDs, err := m.directory.AdminRecipientIDs(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("resolve admin recipients: %w", err))
	}
	complaintID := e.ComplaintID
	for _, adminID := range adminIDs {
		err := m.sender.Send(ctx, inapp.SendParams{
			UserID:      adminID,
			Message:     fmt.Sprintf("New complaint #%s (%q) raised by a citizen.", e.ComplaintID, e.Title),
			ComplaintID: &complaintID,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	if e.AssigneeID != nil {
		err := m.sender.Send(ctx, inapp.SendParams{
			UserID:      *e.AssigneeID,
			Message:     fmt.Sprintf("You have been auto-assigned a new complaint: %q", e.Title),
			ComplaintID: &complaintID,
			EventType:   "complaint-assigned",
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// handleStatusChanged notifies the complaint owner and anyone watching
// the complaint.
func (m *Module) handleStatusChanged(ctx context.Context, e events.ComplaintStatusChanged) error {
	complaintID := e.ComplaintID
	err := m.sender.Send(ctx, inapp.SendParams{
		UserID:      e.CitizenID,
		Message:     fmt.Sprintf("Your complaint status has been updated to %q", e.NewStatus),
		ComplaintID: &complaintID,
		EventType:   "complaint-status-updated",
	})

	m.push(realtime.ComplaintRoom(e.ComplaintID), realtime.Event{
		Type: "status-changed",
		Data: e,
	})

	return err
}

// handleAssigned notifies the assignee and the complaint owner.
func (m *Module) handleAssigned(ctx context.Context, e events.ComplaintAssigned) error {
	complaintID := e.ComplaintID
	var errs []error

	err := m.sender.Send(ctx, inapp.SendParams{
		UserID:      e.AssigneeID,
		Message:     fmt.Sprintf("You have been assigned a new complaint: %q", e.Title),
		ComplaintID: &complaintID,
		EventType:   "complaint-assigned",
	})
	if err != nil {
		errs = append(errs, err)
	}

	assigneeName := m.resolveName(ctx, e.AssigneeID, "a department employee")
	err = m.sender.Send(ctx, inapp.SendParams{
		UserID:      e.CitizenID,
		Message:     fmt.Sprintf("Your complaint has been assigned to %s", assigneeName),
		ComplaintID: &complaintID,
		EventType:   "complaint-status-updated",
	})
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// handleReassigned notifies the new assignee and the outgoing one.
func (m *Module) handleReassigned(ctx context.Context, e events.ComplaintReassigned) error {
	complaintID := e.ComplaintID
	var errs []error

	err := m.sender.Send(ctx, inapp.SendParams{
		UserID:      e.NewAssigneeID,
		Message:     fmt.Sprintf("You have been assigned complaint: %q", e.Title),
		ComplaintID: &complaintID,
		EventType:   "complaint-assigned",
	})
	if err != nil {
		errs = append(errs, err)
	}

	err = m.sender.Send(ctx, inapp.SendParams{
		UserID:      e.PreviousAssigneeID,
		Message:     fmt.Sprintf("Complaint %q has been reassigned", e.Title),
		ComplaintID: &complaintID,
		EventType:   "complaint-unassigned",
	})
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// handleUnassigned notifies the previous assignee.
func (m *Module) handleUnassigned(ctx context.Context, e events.ComplaintUnassigned) error {
	complaintID := e.ComplaintID
	return m.sender.Send(ctx, inapp.SendParams{
		UserID:      e.PreviousAssigneeID,
		Message:     fmt.Sprintf("Complaint %q has been unassigned from you", e.Title),
		ComplaintID: &complaintID,
		EventType:   "complaint-unassigned",
	})
}

// handleFeedbackSubmitted notifies the employee who worked the
// complaint, if any.
func (m *Module) handleFeedbackSubmitted(ctx context.Context, e events.FeedbackSubmitted) error {
	if e.AssigneeID == nil {
		return nil
	}

	complaintID := e.ComplaintID
	return m.sender.Send(ctx, inapp.SendParams{
		UserID:      *e.AssigneeID,
		Message:     fmt.Sprintf("New feedback received: %d stars", e.Rating),
		ComplaintID: &complaintID,
		EventType:   "feedback-received",
	})
}

func (m *Module) push(room string, event realtime.Event) {
	if m.hub != nil {
		m.hub.Publish(room, event)
	}
}

func (m *Module) resolveName(ctx context.Context, id uuid.UUID, fallback string) string {
	if m.directory == nil {
		return fallback
	}
	profile, err := m.directory.Profile(ctx, id)
	if err != nil || profile.Name == "" {
		return fallback
	}
	return profile.Name
}
