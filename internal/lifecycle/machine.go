// Package lifecycle encodes the assignment state graph and the booking
// status derived from it.
package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"service-cleaning-booking/internal/domain"
)

// AllStatuses returns the closed set of assignment states.
func AllStatuses() []domain.AssignmentStatus {
	return domain.AssignmentStatuses()
}

// AllowedSuccessors returns the states reachable from s in one step.
// Terminal and unknown states have no successors.
func AllowedSuccessors(s domain.AssignmentStatus) []domain.AssignmentStatus {
	switch s {
	case domain.StatusAssigned:
		return []domain.AssignmentStatus{domain.StatusAccepted, domain.StatusRejected, domain.StatusCancelled}
	case domain.StatusAccepted:
		return []domain.AssignmentStatus{domain.StatusInProgress, domain.StatusCancelled}
	case domain.StatusInProgress:
		return []domain.AssignmentStatus{domain.StatusCompleted, domain.StatusCancelled}
	case domain.StatusRejected:
		return []domain.AssignmentStatus{domain.StatusAssigned}
	case domain.StatusCompleted, domain.StatusCancelled:
		return nil
	default:
		return nil
	}
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s domain.AssignmentStatus) bool {
	return s.Valid() && len(AllowedSuccessors(s)) == 0
}

// CanTransition reports whether from → to is legal. Staying in the same
// state is always legal and treated as a no-op.
func CanTransition(from, to domain.AssignmentStatus) bool {
	if from == to {
		return from.Valid()
	}
	return slices.Contains(AllowedSuccessors(from), to)
}

// BookingStatusFor derives the booking status mirrored by an assignment status.
func BookingStatusFor(s domain.AssignmentStatus) (domain.BookingStatus, error) {
	switch s {
	case domain.StatusAssigned, domain.StatusAccepted:
		return domain.BookingAssigned, nil
	case domain.StatusInProgress:
		return domain.BookingInProgress, nil
	case domain.StatusCompleted:
		return domain.BookingCompleted, nil
	case domain.StatusCancelled, domain.StatusRejected:
		return domain.BookingCancelled, nil
	default:
		return "", fmt.Errorf("no booking status for assignment status %q", s)
	}
}

// Transition is the outcome of planning a status change.
type Transition struct {
	From          domain.AssignmentStatus
	To            domain.AssignmentStatus
	Patch         domain.AssignmentPatch
	BookingStatus domain.BookingStatus
	// NoOp is set when From == To: nothing but notes may change.
	NoOp bool
	// Reoffer is set when a rejected assignment is handed out again.
	Reoffer bool
}

// ErrIllegalTransition is returned by Plan for edges outside the graph.
type ErrIllegalTransition struct {
	From, To domain.AssignmentStatus
}

func (e ErrIllegalTransition) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

// Plan computes the patch and booking status for moving a to the requested
// status. Edge timestamps are only set when still empty; reason is stored
// only on the rejection edge.
func Plan(a domain.Assignment, to domain.AssignmentStatus, reason string, now time.Time) (Transition, error) {
	from := a.Status
	if !CanTransition(from, to) {
		return Transition{}, ErrIllegalTransition{From: from, To: to}
	}

	t := Transition{From: from, To: to}
	if from == to {
		t.NoOp = true
		t.BookingStatus, _ = BookingStatusFor(from)
		return t, nil
	}

	status := to
	t.Patch.Status = &status

	ts := now
	switch {
	case from == domain.StatusAssigned && to == domain.StatusAccepted:
		if a.AcceptedAt == nil {
			t.Patch.AcceptedAt = &ts
		}
	case from == domain.StatusAccepted && to == domain.StatusInProgress:
		if a.StartedAt == nil {
			t.Patch.StartedAt = &ts
		}
	case from == domain.StatusInProgress && to == domain.StatusCompleted:
		if a.CompletedAt == nil {
			t.Patch.CompletedAt = &ts
		}
	case from == domain.StatusAssigned && to == domain.StatusRejected:
		// the reason stays paired with the first rejected_at; later reasons
		// live in the status history only
		if a.RejectedAt == nil {
			r := reason
			t.Patch.RejectedAt = &ts
			t.Patch.RejectionReason = &r
		}
	case from == domain.StatusRejected && to == domain.StatusAssigned:
		t.Reoffer = true
	}

	bs, err := BookingStatusFor(to)
	if err != nil {
		return Transition{}, err
	}
	t.BookingStatus = bs
	return t, nil
}
