// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"citizenconnect_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Complaint Domain Events
// =============================================================================

// ComplaintCreated is published when a citizen registers a new complaint.
type ComplaintCreated struct {
	BaseEvent
	ComplaintID uuid.UUID  `json:"complaintId"`
	CitizenID   uuid.UUID  `json:"citizenId"`
	Title       string     `json:"title"`
	Department  string     `json:"department"`
	Ward        string     `json:"ward"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
}

func (e ComplaintCreated) EventName() string { return "complaints.created" }

// ComplaintStatusChanged is published after a lifecycle transition commits.
type ComplaintStatusChanged struct {
	BaseEvent
	ComplaintID uuid.UUID  `json:"complaintId"`
	CitizenID   uuid.UUID  `json:"citizenId"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	OldStatus   string     `json:"oldStatus"`
	NewStatus   string     `json:"newStatus"`
	Remarks     string     `json:"remarks,omitempty"`
	ActorID     uuid.UUID  `json:"actorId"`
	Title       string     `json:"title"`
}

func (e ComplaintStatusChanged) EventName() string { return "complaints.status_changed" }

// ComplaintAssigned is published when an unassigned complaint gains an assignee.
type ComplaintAssigned struct {
	BaseEvent
	ComplaintID  uuid.UUID `json:"complaintId"`
	CitizenID    uuid.UUID `json:"citizenId"`
	AssigneeID   uuid.UUID `json:"assigneeId"`
	AssignedByID uuid.UUID `json:"assignedById"`
	Department   string    `json:"department"`
	Title        string    `json:"title"`
}

func (e ComplaintAssigned) EventName() string { return "complaints.assigned" }

// ComplaintReassigned is published when an assigned complaint moves to a
// different assignee.
type ComplaintReassigned struct {
	BaseEvent
	ComplaintID        uuid.UUID `json:"complaintId"`
	CitizenID          uuid.UUID `json:"citizenId"`
	PreviousAssigneeID uuid.UUID `json:"previousAssigneeId"`
	NewAssigneeID      uuid.UUID `json:"newAssigneeId"`
	AssignedByID       uuid.UUID `json:"assignedById"`
	Title              string    `json:"title"`
}

func (e ComplaintReassigned) EventName() string { return "complaints.reassigned" }

// ComplaintUnassigned is published when a complaint's assignee is cleared.
type ComplaintUnassigned struct {
	BaseEvent
	ComplaintID        uuid.UUID `json:"complaintId"`
	CitizenID          uuid.UUID `json:"citizenId"`
	PreviousAssigneeID uuid.UUID `json:"previousAssigneeId"`
	ActorID            uuid.UUID `json:"actorId"`
	Title              string    `json:"title"`
}

func (e ComplaintUnassigned) EventName() string { return "complaints.unassigned" }

// =============================================================================
// Feedback Domain Events
// =============================================================================

// FeedbackSubmitted is published when a citizen rates a resolved complaint.
type FeedbackSubmitted struct {
	BaseEvent
	ComplaintID uuid.UUID  `json:"complaintId"`
	CitizenID   uuid.UUID  `json:"citizenId"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	Rating      int        `json:"rating"`
}

func (e FeedbackSubmitted) EventName() string { return "feedback.submitted" }
