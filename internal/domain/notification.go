package domain

import "time"

// NotificationKind tells the recipient what happened.
type NotificationKind string

// List of notification kinds
const (
	// NotifyNewAssignment is sent when work is offered to a staff member.
	NotifyNewAssignment NotificationKind = "new_assignment"
	// NotifyStatusUpdate reports a status change of work already accepted.
	NotifyStatusUpdate NotificationKind = "status_update"
)

// Valid checks if the NotificationKind is valid
func (k NotificationKind) Valid() bool {
	return k == NotifyNewAssignment || k == NotifyStatusUpdate
}

// NotificationEvent describes an assignment change destined for one staff member.
// Team assignments fan out into one event per team member; TeamID is kept for context.
// EventID identifies one logical event across delivery attempts, so consumers
// can drop duplicates.
type NotificationEvent struct {
	EventID      string
	AssignmentID int64
	BookingID    int64
	StaffID      int64
	TeamID       *int64
	Kind         NotificationKind
	Status       AssignmentStatus
	Message      string
	OccurredAt   time.Time
}
