// Package domain provides core business rules for the complaints bounded context.
package domain

import (
	"fmt"
	"strings"
)

// Status is a complaint lifecycle state.
type Status string

const (
	StatusRaised       Status = "Raised"
	StatusAcknowledged Status = "Acknowledged"
	StatusInProgress   Status = "InProgress"
	StatusResolved     Status = "Resolved"
	StatusClosed       Status = "Closed"
)

// validTransitions maps each status to the statuses it may move to.
// Backward edges let staff correct a premature advance; Closed is final.
var validTransitions = map[Status][]Status{
	StatusRaised:       {StatusAcknowledged},
	StatusAcknowledged: {StatusInProgress, StatusRaised},
	StatusInProgress:   {StatusResolved, StatusAcknowledged},
	StatusResolved:     {StatusClosed, StatusInProgress},
	StatusClosed:       {},
}

// AllStatuses lists every lifecycle state in pipeline order.
var AllStatuses = []Status{
	StatusRaised,
	StatusAcknowledged,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

// IsKnownStatus reports whether the value is a recognized lifecycle state.
func IsKnownStatus(status string) bool {
	_, ok := validTransitions[Status(status)]
	return ok
}

// TransitionResult reports the outcome of a transition check.
type TransitionResult struct {
	Valid   bool
	Message string
	Allowed []Status
}

// ValidateTransition checks whether a complaint may move from current to next.
func ValidateTransition(current, next Status) TransitionResult {
	if !IsKnownStatus(string(next)) {
		return TransitionResult{
			Message: fmt.Sprintf("Invalid status: %s. Must be one of: %s", next, joinStatuses(AllStatuses)),
			Allowed: NextPossibleStatuses(current),
		}
	}

	if current == StatusClosed {
		return TransitionResult{
			Message: "Cannot change status of a closed complaint",
			Allowed: nil,
		}
	}

	allowed := NextPossibleStatuses(current)
	for _, candidate := range allowed {
		if candidate == next {
			return TransitionResult{Valid: true, Allowed: allowed}
		}
	}

	return TransitionResult{
		Message: fmt.Sprintf("Cannot transition from %s to %s. Valid next states: %s", current, next, joinOrNone(allowed)),
		Allowed: allowed,
	}
}

// NextPossibleStatuses returns the statuses the complaint may move to next.
func NextPossibleStatuses(current Status) []Status {
	allowed := validTransitions[current]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status Status) bool {
	return status == StatusClosed
}

// ProgressPercentage maps a status to its pipeline completion percentage.
func ProgressPercentage(status Status) int {
	switch status {
	case StatusRaised:
		return 20
	case StatusAcknowledged:
		return 40
	case StatusInProgress:
		return 60
	case StatusResolved:
		return 80
	case StatusClosed:
		return 100
	default:
		return 0
	}
}

// DisplayName returns the human-readable form of a status.
func DisplayName(status Status) string {
	if status == StatusInProgress {
		return "In Progress"
	}
	return string(status)
}

// TimestampColumn returns the complaints column that records when the status
// was first reached, or empty for statuses without a dedicated column.
func TimestampColumn(status Status) string {
	switch status {
	case StatusAcknowledged:
		return "acknowledged_at"
	case StatusInProgress:
		return "in_progress_at"
	case StatusResolved:
		return "resolved_at"
	case StatusClosed:
		return "closed_at"
	default:
		return ""
	}
}

func joinStatuses(statuses []Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinOrNone(statuses []Status) string {
	if len(statuses) == 0 {
		return "None"
	}
	return joinStatuses(statuses)
}
