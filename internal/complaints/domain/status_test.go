package domain

import (
	"strings"
	"testing"
)

// TestValidateTransitionMatrix checks every ordered pair of lifecycle states
// against the transition table.
func TestValidateTransitionMatrix(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusRaised:       {StatusAcknowledged: true},
		StatusAcknowledged: {StatusInProgress: true, StatusRaised: true},
		StatusInProgress:   {StatusResolved: true, StatusAcknowledged: true},
		StatusResolved:     {StatusClosed: true, StatusInProgress: true},
		StatusClosed:       {},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			result := ValidateTransition(from, to)
			want := allowed[from][to]
			if result.Valid != want {
				t.Errorf("ValidateTransition(%s, %s).Valid = %v, want %v", from, to, result.Valid, want)
			}
			if !result.Valid && result.Message == "" {
				t.Errorf("ValidateTransition(%s, %s) invalid but has no message", from, to)
			}
		}
	}
}

func TestValidateTransitionClosedIsFinal(t *testing.T) {
	for _, to := range AllStatuses {
		result := ValidateTransition(StatusClosed, to)
		if result.Valid {
			t.Errorf("ValidateTransition(Closed, %s) should be invalid", to)
		}
	}

	result := ValidateTransition(StatusClosed, StatusRaised)
	if !strings.Contains(result.Message, "closed complaint") {
		t.Errorf("unexpected message for closed complaint: %q", result.Message)
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	result := ValidateTransition(StatusRaised, Status("Pending"))
	if result.Valid {
		t.Fatal("expected unknown status to be rejected")
	}
	if !strings.Contains(result.Message, "Invalid status: Pending") {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestValidateTransitionReportsAllowedSet(t *testing.T) {
	result := ValidateTransition(StatusResolved, StatusAcknowledged)
	if result.Valid {
		t.Fatal("Resolved -> Acknowledged should be invalid")
	}

	want := map[Status]bool{StatusClosed: true, StatusInProgress: true}
	if len(result.Allowed) != len(want) {
		t.Fatalf("allowed set = %v, want Closed and InProgress", result.Allowed)
	}
	for _, s := range result.Allowed {
		if !want[s] {
			t.Errorf("unexpected allowed status %s", s)
		}
	}
}

func TestNextPossibleStatuses(t *testing.T) {
	cases := []struct {
		current Status
		want    []Status
	}{
		{StatusRaised, []Status{StatusAcknowledged}},
		{StatusAcknowledged, []Status{StatusInProgress, StatusRaised}},
		{StatusInProgress, []Status{StatusResolved, StatusAcknowledged}},
		{StatusResolved, []Status{StatusClosed, StatusInProgress}},
		{StatusClosed, []Status{}},
	}

	for _, tc := range cases {
		got := NextPossibleStatuses(tc.current)
		if len(got) != len(tc.want) {
			t.Errorf("NextPossibleStatuses(%s) = %v, want %v", tc.current, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("NextPossibleStatuses(%s) = %v, want %v", tc.current, got, tc.want)
				break
			}
		}
	}
}

func TestProgressPercentage(t *testing.T) {
	cases := map[Status]int{
		StatusRaised:       20,
		StatusAcknowledged: 40,
		StatusInProgress:   60,
		StatusResolved:     80,
		StatusClosed:       100,
		Status("Pending"):  0,
	}

	for status, want := range cases {
		if got := ProgressPercentage(status); got != want {
			t.Errorf("ProgressPercentage(%s) = %d, want %d", status, got, want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range AllStatuses {
		want := status == StatusClosed
		if got := IsTerminal(status); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(StatusInProgress); got != "In Progress" {
		t.Errorf("DisplayName(InProgress) = %q, want %q", got, "In Progress")
	}
	if got := DisplayName(StatusRaised); got != "Raised" {
		t.Errorf("DisplayName(Raised) = %q, want %q", got, "Raised")
	}
}

func TestTimestampColumn(t *testing.T) {
	cases := map[Status]string{
		StatusRaised:       "",
		StatusAcknowledged: "acknowledged_at",
		StatusInProgress:   "in_progress_at",
		StatusResolved:     "resolved_at",
		StatusClosed:       "closed_at",
	}

	for status, want := range cases {
		if got := TimestampColumn(status); got != want {
			t.Errorf("TimestampColumn(%s) = %q, want %q", status, got, want)
		}
	}
}
