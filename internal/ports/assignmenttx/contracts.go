package assignmenttx

import (
	"context"

	"service-cleaning-booking/internal/domain"
)

// Repository is the storage view available inside one transaction.
// Lookups return (nil, nil) when the row does not exist.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetAssignmentByBooking(ctx context.Context, bookingID int64) (*domain.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error)
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetTeam(ctx context.Context, id int64) (*domain.Team, error)
	ListTeamMembers(ctx context.Context, teamID int64) ([]domain.TeamMember, error)
	ListStatusHistory(ctx context.Context, assignmentID int64) ([]domain.StatusHistoryEntry, error)

	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	UpdateAssignment(ctx context.Context, id int64, patch domain.AssignmentPatch) error
	UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	InsertStatusHistory(ctx context.Context, e *domain.StatusHistoryEntry) error
	DeleteAssignment(ctx context.Context, id int64) error
}

// Runner is a transaction runner. fn either commits as a whole or leaves
// no trace.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
