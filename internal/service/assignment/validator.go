package assignment

import (
	"strings"

	"service-cleaning-booking/internal/apperr"
	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/lifecycle"
)

// ResolveKind checks that exactly one of staff or team is referenced and that
// a declared kind agrees with it. An empty kind is derived from the ids.
func ResolveKind(kind domain.AssignmentKind, staffID, teamID *int64) (domain.AssignmentKind, error) {
	if (staffID == nil) == (teamID == nil) {
		return "", apperr.ErrInvalidAssignmentType
	}
	derived := domain.KindIndividual
	if teamID != nil {
		derived = domain.KindTeam
	}
	if kind != "" && kind != derived {
		return "", apperr.ErrInvalidAssignmentType
	}
	return derived, nil
}

// ValidateCreate checks that booking may receive the assignment described by in.
// staff and team are the loaded referents; nil means the row was not found.
func ValidateCreate(
	in CreateInput,
	booking *domain.Booking,
	existing *domain.Assignment,
	staff *domain.StaffMember,
	team *domain.Team,
) error {
	if booking == nil {
		return apperr.ErrBookingNotFound
	}
	if existing != nil {
		return apperr.ErrBookingAlreadyAssigned
	}
	kind, err := ResolveKind(in.Kind, in.StaffID, in.TeamID)
	if err != nil {
		return err
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return apperr.ErrInvalidPriority
	}

	switch kind {
	case domain.KindIndividual:
		if staff == nil {
			return apperr.ErrStaffNotFound
		}
		if !staff.Active() {
			return apperr.ErrStaffInactive
		}
	case domain.KindTeam:
		if team == nil {
			return apperr.ErrTeamNotFound
		}
		if !team.Active() {
			return apperr.ErrTeamInactive
		}
	}
	return nil
}

// ValidateTransition checks that requested is a known status reachable from current.
func ValidateTransition(current, requested domain.AssignmentStatus) error {
	if !requested.Valid() {
		return apperr.ErrInvalidStatus
	}
	if !lifecycle.CanTransition(current, requested) {
		return apperr.ErrInvalidTransition
	}
	return nil
}

// ValidateRejection enforces the rejection reason policy.
func ValidateRejection(reason string, required bool) error {
	if required && strings.TrimSpace(reason) == "" {
		return apperr.ErrReasonRequired
	}
	return nil
}
