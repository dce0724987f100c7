package handlers

import "time"

type createAssignmentRequest struct {
	BookingID      int64  `json:"booking_id" validate:"required,gt=0"`
	AssignedBy     int64  `json:"assigned_by" validate:"required,gt=0"`
	AssignmentType string `json:"assignment_type,omitempty" validate:"omitempty,oneof=individual team"`
	StaffID        *int64 `json:"staff_id,omitempty" validate:"omitempty,gt=0"`
	TeamID         *int64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	Priority       string `json:"priority,omitempty"`
	CustomerNotes  string `json:"customer_notes,omitempty" validate:"max=2000"`
	AdminNotes     string `json:"admin_notes,omitempty" validate:"max=2000"`
	StaffNotes     string `json:"staff_notes,omitempty" validate:"max=2000"`
}

type notesPatchRequest struct {
	CustomerNotes *string `json:"customer_notes,omitempty" validate:"omitempty,max=2000"`
	AdminNotes    *string `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
	StaffNotes    *string `json:"staff_notes,omitempty" validate:"omitempty,max=2000"`
}

type transitionRequest struct {
	Status  string             `json:"status" validate:"required"`
	ActorID int64              `json:"actor_id" validate:"required,gt=0"`
	Reason  string             `json:"reason,omitempty" validate:"max=500"`
	Notes   *notesPatchRequest `json:"notes,omitempty"`
}

type assignmentDTO struct {
	ID              int64      `json:"id"`
	BookingID       int64      `json:"booking_id"`
	StaffID         *int64     `json:"staff_id"`
	TeamID          *int64     `json:"team_id"`
	AssignedBy      int64      `json:"assigned_by"`
	AssignmentType  string     `json:"assignment_type"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	CustomerNotes   string     `json:"customer_notes"`
	AdminNotes      string     `json:"admin_notes"`
	StaffNotes      string     `json:"staff_notes"`
	AssignedAt      time.Time  `json:"assigned_at"`
	AcceptedAt      *time.Time `json:"accepted_at"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type historyEntryDTO struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	ChangedBy    int64     `json:"changed_by"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
