package kafka

import (
	"fmt"
	"strings"
	"time"

	"service-cleaning-booking/internal/domain"
)

// Header keys set on notification messages.
const (
	HeaderEventID = "event-id"
	HeaderKind    = "kind"
)

// NotificationDTO is the wire form of domain.NotificationEvent.
type NotificationDTO struct {
	EventID      string    `json:"event_id,omitempty"`
	AssignmentID int64     `json:"assignment_id"`
	BookingID    int64     `json:"booking_id"`
	StaffID      int64     `json:"staff_id"`
	TeamID       *int64    `json:"team_id,omitempty"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// FromDomain converts a domain.NotificationEvent to its wire form.
func FromDomain(eventID string, ev domain.NotificationEvent) NotificationDTO {
	return NotificationDTO{
		EventID:      eventID,
		AssignmentID: ev.AssignmentID,
		BookingID:    ev.BookingID,
		StaffID:      ev.StaffID,
		TeamID:       ev.TeamID,
		Kind:         string(ev.Kind),
		Status:       string(ev.Status),
		Message:      ev.Message,
		OccurredAt:   ev.OccurredAt.UTC(),
	}
}

// ToDomain converts NotificationDTO to domain.NotificationEvent. A message
// without recipient or kind cannot be delivered.
func ToDomain(dto NotificationDTO) (domain.NotificationEvent, error) {
	kind := strings.TrimSpace(dto.Kind)
	if dto.StaffID <= 0 {
		return domain.NotificationEvent{}, fmt.Errorf("staff_id must be positive, got %d", dto.StaffID)
	}
	if kind == "" {
		return domain.NotificationEvent{}, fmt.Errorf("kind is empty")
	}
	if !domain.NotificationKind(kind).Valid() {
		return domain.NotificationEvent{}, fmt.Errorf("unknown kind %q", kind)
	}
	return domain.NotificationEvent{
		EventID:      dto.EventID,
		AssignmentID: dto.AssignmentID,
		BookingID:    dto.BookingID,
		StaffID:      dto.StaffID,
		TeamID:       dto.TeamID,
		Kind:         domain.NotificationKind(kind),
		Status:       domain.AssignmentStatus(strings.TrimSpace(dto.Status)),
		Message:      dto.Message,
		OccurredAt:   dto.OccurredAt,
	}, nil
}
