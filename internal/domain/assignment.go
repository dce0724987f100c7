package domain

import (
	"errors"
	"time"
)

// ErrStaffXorTeam is returned by Assignment.Validate when the staff/team pair is broken.
var ErrStaffXorTeam = errors.New("assignment must reference exactly one of staff or team")

// AssignmentNotes carries the three audiences of free-text notes.
type AssignmentNotes struct {
	Customer string // visible to the customer
	Admin    string // admins only
	Staff    string // staff only
}

// Assignment is the work order linking one booking to one staff member or one team.
type Assignment struct {
	ID              int64
	BookingID       int64
	StaffID         *int64
	TeamID          *int64
	AssignedBy      int64
	Kind            AssignmentKind
	Status          AssignmentStatus
	Priority        Priority
	Notes           AssignmentNotes
	AssignedAt      time.Time
	AcceptedAt      *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	UpdatedAt       time.Time
}

// Validate checks that exactly one of staff or team is set.
func (a *Assignment) Validate() error {
	if (a.StaffID == nil) == (a.TeamID == nil) {
		return ErrStaffXorTeam
	}
	return nil
}

// NotesPatch carries optional note updates. A nil field means “do not change”.
type NotesPatch struct {
	Customer *string
	Admin    *string
	Staff    *string
}

// Empty reports whether the patch changes nothing.
func (p NotesPatch) Empty() bool {
	return p.Customer == nil && p.Admin == nil && p.Staff == nil
}

// AssignmentPatch carries optional fields to update an assignment.
// A nil field means “do not change” that attribute.
type AssignmentPatch struct {
	Status          *AssignmentStatus
	AcceptedAt      *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	RejectedAt      *time.Time
	RejectionReason *string
	Notes           NotesPatch
}

// Apply copies the set fields of p onto a.
func (p AssignmentPatch) Apply(a *Assignment) {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.AcceptedAt != nil {
		a.AcceptedAt = p.AcceptedAt
	}
	if p.StartedAt != nil {
		a.StartedAt = p.StartedAt
	}
	if p.CompletedAt != nil {
		a.CompletedAt = p.CompletedAt
	}
	if p.RejectedAt != nil {
		a.RejectedAt = p.RejectedAt
	}
	if p.RejectionReason != nil {
		a.RejectionReason = *p.RejectionReason
	}
	if p.Notes.Customer != nil {
		a.Notes.Customer = *p.Notes.Customer
	}
	if p.Notes.Admin != nil {
		a.Notes.Admin = *p.Notes.Admin
	}
	if p.Notes.Staff != nil {
		a.Notes.Staff = *p.Notes.Staff
	}
}

// StatusHistoryEntry is an append-only audit record of a status transition.
type StatusHistoryEntry struct {
	ID           int64
	AssignmentID int64
	OldStatus    AssignmentStatus
	NewStatus    AssignmentStatus
	ChangedBy    int64
	Reason       string
	CreatedAt    time.Time
}
