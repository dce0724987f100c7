package handlers

import (
	"strings"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/service/assignment"
)

func (r createAssignmentRequest) toInput() assignment.CreateInput {
	return assignment.CreateInput{
		BookingID:  r.BookingID,
		AssignedBy: r.AssignedBy,
		Kind:       domain.AssignmentKind(r.AssignmentType),
		StaffID:    r.StaffID,
		TeamID:     r.TeamID,
		Priority:   domain.Priority(strings.TrimSpace(r.Priority)),
		Notes: domain.AssignmentNotes{
			Customer: r.CustomerNotes,
			Admin:    r.AdminNotes,
			Staff:    r.StaffNotes,
		},
	}
}

func (r transitionRequest) toInput(id int64) assignment.TransitionInput {
	in := assignment.TransitionInput{
		AssignmentID: id,
		Status:       domain.AssignmentStatus(strings.TrimSpace(r.Status)),
		ActorID:      r.ActorID,
		Reason:       r.Reason,
	}
	if r.Notes != nil {
		in.Notes = domain.NotesPatch{
			Customer: r.Notes.CustomerNotes,
			Admin:    r.Notes.AdminNotes,
			Staff:    r.Notes.StaffNotes,
		}
	}
	return in
}

func assignmentToResponse(a *domain.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:              a.ID,
		BookingID:       a.BookingID,
		StaffID:         a.StaffID,
		TeamID:          a.TeamID,
		AssignedBy:      a.AssignedBy,
		AssignmentType:  string(a.Kind),
		Status:          string(a.Status),
		Priority:        string(a.Priority),
		CustomerNotes:   a.Notes.Customer,
		AdminNotes:      a.Notes.Admin,
		StaffNotes:      a.Notes.Staff,
		AssignedAt:      a.AssignedAt,
		AcceptedAt:      a.AcceptedAt,
		StartedAt:       a.StartedAt,
		CompletedAt:     a.CompletedAt,
		RejectedAt:      a.RejectedAt,
		RejectionReason: a.RejectionReason,
		UpdatedAt:       a.UpdatedAt,
	}
}

func historyToResponse(list []domain.StatusHistoryEntry) []historyEntryDTO {
	out := make([]historyEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, historyEntryDTO{
			ID:           e.ID,
			AssignmentID: e.AssignmentID,
			OldStatus:    string(e.OldStatus),
			NewStatus:    string(e.NewStatus),
			ChangedBy:    e.ChangedBy,
			Reason:       e.Reason,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
