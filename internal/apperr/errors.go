package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnprocessable indicates that a referenced entity exists but is not eligible.
var ErrUnprocessable = errors.New("unprocessable")

// ErrPersistence wraps infrastructure failures coming from the storage layer.
var ErrPersistence = errors.New("persistence error")

// Error is a named failure that belongs to one of the categories above.
type Error struct {
	Code string
	msg  string
	kind error
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the category so errors.Is works against both the
// named error and its category.
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, code, msg string) *Error {
	return &Error{Code: code, msg: msg, kind: kind}
}

// Lifecycle failures returned by the assignment engine.
var (
	ErrBookingNotFound        = newError(ErrNotFound, "booking_not_found", "booking not found")
	ErrAssignmentNotFound     = newError(ErrNotFound, "assignment_not_found", "assignment not found")
	ErrStaffNotFound          = newError(ErrNotFound, "staff_not_found", "staff member not found")
	ErrTeamNotFound           = newError(ErrNotFound, "team_not_found", "team not found")
	ErrBookingAlreadyAssigned = newError(ErrConflict, "booking_already_assigned", "booking already has an assignment")
	ErrInvalidTransition      = newError(ErrConflict, "invalid_transition", "status transition not allowed")
	ErrStaffInactive          = newError(ErrUnprocessable, "staff_inactive", "staff member is not active")
	ErrTeamInactive           = newError(ErrUnprocessable, "team_inactive", "team is not active")
	ErrInvalidAssignmentType  = newError(ErrInvalid, "invalid_assignment_type", "exactly one of staff_id or team_id is required")
	ErrInvalidStatus          = newError(ErrInvalid, "invalid_status", "unknown assignment status")
	ErrReasonRequired         = newError(ErrInvalid, "reason_required", "rejection reason is required")
	ErrInvalidPriority        = newError(ErrInvalid, "invalid_priority", "unknown priority")
)

// Code returns the machine readable code of a named error, or "" when err
// does not carry one.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
