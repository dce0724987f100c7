// Package assignment implements the assignment lifecycle: creating work orders
// for bookings, moving them through the status graph while keeping the booking
// in sync, and announcing new work to staff.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"service-cleaning-booking/internal/apperr"
	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/lifecycle"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/metrics"
	"service-cleaning-booking/internal/ports/assignmenttx"
)

// DefaultRejectionReason is stored when a rejection arrives without a reason
// and the strict policy is off.
const DefaultRejectionReason = "no reason provided"

// Config tunes the service behaviour.
type Config struct {
	OperationTimeout       time.Duration
	RequireRejectionReason bool
	DefaultRejectionReason string
}

// CreateInput describes a new assignment.
type CreateInput struct {
	BookingID  int64
	AssignedBy int64
	Kind       domain.AssignmentKind
	StaffID    *int64
	TeamID     *int64
	Priority   domain.Priority
	Notes      domain.AssignmentNotes
}

// TransitionInput describes a requested status change.
type TransitionInput struct {
	AssignmentID int64
	Status       domain.AssignmentStatus
	ActorID      int64
	Reason       string
	Notes        domain.NotesPatch
}

// Service coordinates the assignment lifecycle.
type Service struct {
	repo     assignmenttx.Runner
	notifier Dispatcher
	cfg      Config
	logger   logx.Logger
	metrics  *metrics.Assignment
	now      func() time.Time
}

// NewService creates an assignment Service. A nil logger or metrics set is
// replaced by a no-op one.
func NewService(repo assignmenttx.Runner, notifier Dispatcher, cfg Config, logger logx.Logger, m *metrics.Assignment) *Service {
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 3 * time.Second
	}
	if strings.TrimSpace(cfg.DefaultRejectionReason) == "" {
		cfg.DefaultRejectionReason = DefaultRejectionReason
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if m == nil {
		m = metrics.NewAssignment()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

// CreateAssignment links a booking to a staff member or a team. The booking
// moves to assigned in the same transaction; recipients are notified after commit.
func (s *Service) CreateAssignment(ctx context.Context, in CreateInput) (*domain.Assignment, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		created    *domain.Assignment
		recipients []int64
	)
	err := s.repo.WithTx(opCtx, func(tx assignmenttx.Repository) error {
		booking, err := tx.GetBooking(opCtx, in.BookingID)
		if err != nil {
			return err
		}
		var existing *domain.Assignment
		if booking != nil {
			if existing, err = tx.GetAssignmentByBooking(opCtx, in.BookingID); err != nil {
				return err
			}
		}

		var (
			staff *domain.StaffMember
			team  *domain.Team
		)
		switch {
		case in.StaffID != nil && in.TeamID == nil:
			if staff, err = tx.GetStaff(opCtx, *in.StaffID); err != nil {
				return err
			}
		case in.TeamID != nil && in.StaffID == nil:
			if team, err = tx.GetTeam(opCtx, *in.TeamID); err != nil {
				return err
			}
		}

		if err := ValidateCreate(in, booking, existing, staff, team); err != nil {
			return err
		}
		kind, _ := ResolveKind(in.Kind, in.StaffID, in.TeamID)

		priority := in.Priority
		if priority == "" {
			priority = domain.PriorityNormal
		}

		a := &domain.Assignment{
			BookingID:  in.BookingID,
			StaffID:    in.StaffID,
			TeamID:     in.TeamID,
			AssignedBy: in.AssignedBy,
			Kind:       kind,
			Status:     domain.StatusAssigned,
			Priority:   priority,
			Notes:      in.Notes,
			AssignedAt: s.now(),
		}
		if err := tx.InsertAssignment(opCtx, a); err != nil {
			return err
		}
		if err := tx.UpdateBookingStatus(opCtx, in.BookingID, domain.BookingAssigned); err != nil {
			return err
		}

		if recipients, err = s.recipients(opCtx, tx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.metrics.Created.Inc()
	s.logger.Info("assignment created",
		logx.String("event", "assignment_created"),
		logx.Int64("assignment_id", created.ID),
		logx.Int64("booking_id", created.BookingID),
		logx.String("kind", string(created.Kind)),
		logx.Int("recipients", len(recipients)),
	)
	s.announce(ctx, created, recipients)
	return created, nil
}

// TransitionAssignment moves an assignment to the requested status. The
// assignment update, its history entry and the booking status change commit
// together. Moving to the current status only applies the notes.
func (s *Service) TransitionAssignment(ctx context.Context, in TransitionInput) (*domain.Assignment, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		updated    *domain.Assignment
		tr         lifecycle.Transition
		recipients []int64
	)
	err := s.repo.WithTx(opCtx, func(tx assignmenttx.Repository) error {
		current, err := tx.GetAssignment(opCtx, in.AssignmentID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.ErrAssignmentNotFound
		}
		if err := ValidateTransition(current.Status, in.Status); err != nil {
			return err
		}

		reason := strings.TrimSpace(in.Reason)
		if in.Status == domain.StatusRejected && current.Status != domain.StatusRejected {
			if err := ValidateRejection(reason, s.cfg.RequireRejectionReason); err != nil {
				return err
			}
			if reason == "" {
				reason = s.cfg.DefaultRejectionReason
			}
		}

		now := s.now()
		tr, err = lifecycle.Plan(*current, in.Status, reason, now)
		if err != nil {
			return apperr.ErrInvalidTransition
		}
		patch := tr.Patch
		patch.Notes = in.Notes

		if !tr.NoOp || !patch.Notes.Empty() {
			if err := tx.UpdateAssignment(opCtx, current.ID, patch); err != nil {
				return err
			}
		}
		if !tr.NoOp {
			if err := tx.InsertStatusHistory(opCtx, &domain.StatusHistoryEntry{
				AssignmentID: current.ID,
				OldStatus:    tr.From,
				NewStatus:    tr.To,
				ChangedBy:    in.ActorID,
				Reason:       reason,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
			if err := tx.UpdateBookingStatus(opCtx, current.BookingID, tr.BookingStatus); err != nil {
				return err
			}
		}

		if updated, err = tx.GetAssignment(opCtx, current.ID); err != nil {
			return err
		}
		if updated == nil {
			return apperr.ErrAssignmentNotFound
		}
		if tr.Reoffer {
			if recipients, err = s.recipients(opCtx, tx, updated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if tr.NoOp {
		s.logger.Debug("assignment transition is a no-op",
			logx.Int64("assignment_id", updated.ID),
			logx.String("status", string(updated.Status)),
		)
		return updated, nil
	}

	s.metrics.Transitions.WithLabelValues(string(tr.From), string(tr.To)).Inc()
	s.logger.Info("assignment status changed",
		logx.String("event", "assignment_transition"),
		logx.Int64("assignment_id", updated.ID),
		logx.Int64("booking_id", updated.BookingID),
		logx.String("from", string(tr.From)),
		logx.String("to", string(tr.To)),
		logx.Int64("actor_id", in.ActorID),
	)
	if tr.Reoffer {
		s.announce(ctx, updated, recipients)
	}
	return updated, nil
}

// DeleteAssignment removes an assignment and returns its booking to pending.
// No history entry is written.
func (s *Service) DeleteAssignment(ctx context.Context, id int64) error {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var deleted *domain.Assignment
	err := s.repo.WithTx(opCtx, func(tx assignmenttx.Repository) error {
		a, err := tx.GetAssignment(opCtx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.ErrAssignmentNotFound
		}
		if err := tx.UpdateBookingStatus(opCtx, a.BookingID, domain.BookingPending); err != nil {
			return err
		}
		if err := tx.DeleteAssignment(opCtx, id); err != nil {
			return err
		}
		deleted = a
		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.logger.Info("assignment deleted",
		logx.String("event", "assignment_deleted"),
		logx.Int64("assignment_id", deleted.ID),
		logx.Int64("booking_id", deleted.BookingID),
		logx.String("status", string(deleted.Status)),
	)
	return nil
}

// GetAssignment returns an assignment by id.
func (s *Service) GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out *domain.Assignment
	err := s.repo.WithTx(opCtx, func(tx assignmenttx.Repository) error {
		a, err := tx.GetAssignment(opCtx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.ErrAssignmentNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// History returns the status history of an assignment, oldest first. History
// outlives its assignment, so entries of a deleted assignment are still returned.
func (s *Service) History(ctx context.Context, id int64) ([]domain.StatusHistoryEntry, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out []domain.StatusHistoryEntry
	err := s.repo.WithTx(opCtx, func(tx assignmenttx.Repository) error {
		entries, err := tx.ListStatusHistory(opCtx, id)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			a, err := tx.GetAssignment(opCtx, id)
			if err != nil {
				return err
			}
			if a == nil {
				return apperr.ErrAssignmentNotFound
			}
		}
		out = entries
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if out == nil {
		out = []domain.StatusHistoryEntry{}
	}
	return out, nil
}

// recipients lists the staff ids that must hear about a: the assignee, or
// every member of the assigned team.
func (s *Service) recipients(ctx context.Context, tx assignmenttx.Repository, a *domain.Assignment) ([]int64, error) {
	if a.StaffID != nil {
		return []int64{*a.StaffID}, nil
	}
	if a.TeamID == nil {
		return nil, nil
	}
	members, err := tx.ListTeamMembers(ctx, *a.TeamID)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		out = append(out, m.StaffID)
	}
	if len(out) == 0 {
		s.logger.Warn("team has no members to notify",
			logx.Int64("assignment_id", a.ID),
			logx.Int64("team_id", *a.TeamID),
		)
	}
	return out, nil
}

// announce hands one new_assignment event per recipient to the dispatcher.
// Failures are logged and counted, never returned.
func (s *Service) announce(ctx context.Context, a *domain.Assignment, recipients []int64) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("You have been assigned booking #%d", a.BookingID)
	if a.Kind == domain.KindTeam {
		msg = fmt.Sprintf("Your team has been assigned booking #%d", a.BookingID)
	}
	now := s.now()

	for _, staffID := range recipients {
		ev := domain.NotificationEvent{
			AssignmentID: a.ID,
			BookingID:    a.BookingID,
			StaffID:      staffID,
			TeamID:       a.TeamID,
			Kind:         domain.NotifyNewAssignment,
			Status:       a.Status,
			Message:      msg,
			OccurredAt:   now,
		}
		if err := s.notifier.Send(ctx, ev); err != nil {
			s.metrics.DispatchFailed.Inc()
			s.logger.Error("notification dispatch failed",
				logx.Int64("assignment_id", a.ID),
				logx.Int64("staff_id", staffID),
				logx.Err(err),
			)
		}
	}
}

// classify leaves lifecycle errors untouched and marks everything else as a
// persistence failure.
func classify(err error) error {
	var named *apperr.Error
	switch {
	case errors.As(err, &named):
		return err
	case errors.Is(err, domain.ErrStaffXorTeam):
		return apperr.ErrInvalidAssignmentType
	default:
		return fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
}
