package domain

type (
	// BookingStatus represents the status of a customer booking.
	BookingStatus string
	// AssignmentStatus represents the lifecycle state of an assignment.
	AssignmentStatus string
	// AssignmentKind tells whether an assignment targets a staff member or a team.
	AssignmentKind string
	// Priority represents the urgency of an assignment.
	Priority string
)

// List of possible booking statuses
const (
	BookingPending    BookingStatus = "pending"
	BookingAssigned   BookingStatus = "assigned"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// List of possible assignment statuses
const (
	StatusAssigned   AssignmentStatus = "assigned"
	StatusAccepted   AssignmentStatus = "accepted"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusCancelled  AssignmentStatus = "cancelled"
	StatusRejected   AssignmentStatus = "rejected"
)

// List of assignment kinds
const (
	KindIndividual AssignmentKind = "individual"
	KindTeam       AssignmentKind = "team"
)

// List of priorities
const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var allowedBookingStatuses = [...]BookingStatus{
	BookingPending, BookingAssigned, BookingInProgress, BookingCompleted, BookingCancelled,
}

var allowedAssignmentStatuses = [...]AssignmentStatus{
	StatusAssigned, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected,
}

var allowedPriorities = [...]Priority{
	PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent,
}

// Valid checks if the BookingStatus is valid
func (s BookingStatus) Valid() bool {
	for _, v := range allowedBookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the AssignmentStatus is valid
func (s AssignmentStatus) Valid() bool {
	for _, v := range allowedAssignmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the AssignmentKind is valid
func (k AssignmentKind) Valid() bool {
	return k == KindIndividual || k == KindTeam
}

// Valid checks if the Priority is valid
func (p Priority) Valid() bool {
	for _, v := range allowedPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// AssignmentStatuses returns every assignment status in declaration order.
func AssignmentStatuses() []AssignmentStatus {
	out := make([]AssignmentStatus, len(allowedAssignmentStatuses))
	copy(out, allowedAssignmentStatuses[:])
	return out
}
