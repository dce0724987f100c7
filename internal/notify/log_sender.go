package notify

import (
	"context"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/logx"
)

// LogSender writes notifications to the log. It stands in for a mail or push
// transport.
type LogSender struct {
	logger logx.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger logx.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Deliver implements Sender.
func (s *LogSender) Deliver(_ context.Context, ev domain.NotificationEvent) error {
	fields := []logx.Field{
		logx.String("kind", string(ev.Kind)),
		logx.Int64("assignment_id", ev.AssignmentID),
		logx.Int64("booking_id", ev.BookingID),
		logx.Int64("staff_id", ev.StaffID),
		logx.String("status", string(ev.Status)),
		logx.String("message", ev.Message),
		logx.Time("occurred_at", ev.OccurredAt),
	}
	if ev.TeamID != nil {
		fields = append(fields, logx.Int64("team_id", *ev.TeamID))
	}
	s.logger.Info("notification", fields...)
	return nil
}
