package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-cleaning-booking/internal/apperr"
	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/ports/assignmenttx"
)

// AssignmentRepo represents the assignment repository.
type AssignmentRepo struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

// NewAssignmentRepo creates a new AssignmentRepo. A positive lockTimeout bounds
// how long a transaction waits for a row lock held by a concurrent writer.
func NewAssignmentRepo(db *pgxpool.Pool, lockTimeout time.Duration) *AssignmentRepo {
	return &AssignmentRepo{db: db, lockTimeout: lockTimeout}
}

// WithTx opens a transaction and executes fn within it.
func (r *AssignmentRepo) WithTx(ctx context.Context, fn func(tx assignmenttx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())); err != nil {
			return rollback(ctx, tx, fmt.Errorf("set lock timeout: %w", err))
		}
	}

	if err := fn(&TxRepo{tx: tx}); err != nil {
		return rollback(ctx, tx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// rollback aborts tx after cause. A failed rollback is joined to cause so
// callers can still match the original error with errors.Is.
func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if rbErr := tx.Rollback(ctx); rbErr != nil {
		return errors.Join(cause, fmt.Errorf("rollback tx: %w", rbErr))
	}
	return cause
}

// TxRepo implements assignmenttx.Repository on top of a pgx transaction.
type TxRepo struct {
	tx pgx.Tx
}

var _ assignmenttx.Repository = (*TxRepo)(nil)

// GetBooking loads a booking and locks its row until the transaction ends.
func (r *TxRepo) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, customer_name, customer_email, customer_phone, address,
               service_type, preferred_date, preferred_time, notes, status,
               created_at, updated_at
        FROM bookings
        WHERE id = $1
        FOR UPDATE
    `, id)

	var (
		b      domain.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.Customer.Name, &b.Customer.Email, &b.Customer.Phone, &b.Customer.Address,
		&b.ServiceType, &b.PreferredDate, &b.PreferredTime, &b.Notes, &status,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrapLock(err, fmt.Sprintf("get booking %d", id))
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

const assignmentColumns = `
    id, booking_id, staff_id, team_id, assigned_by, assignment_type, status, priority,
    customer_notes, admin_notes, staff_notes,
    assigned_at, accepted_at, started_at, completed_at, rejected_at,
    rejection_reason, updated_at`

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var (
		a                      domain.Assignment
		kind, status, priority string
	)
	err := row.Scan(&a.ID, &a.BookingID, &a.StaffID, &a.TeamID, &a.AssignedBy, &kind, &status, &priority,
		&a.Notes.Customer, &a.Notes.Admin, &a.Notes.Staff,
		&a.AssignedAt, &a.AcceptedAt, &a.StartedAt, &a.CompletedAt, &a.RejectedAt,
		&a.RejectionReason, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Kind = domain.AssignmentKind(kind)
	a.Status = domain.AssignmentStatus(status)
	a.Priority = domain.Priority(priority)
	return &a, nil
}

// GetAssignmentByBooking returns the assignment of a booking, locking it.
func (r *TxRepo) GetAssignmentByBooking(ctx context.Context, bookingID int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.tx.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE booking_id = $1 FOR UPDATE`, bookingID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrapLock(err, fmt.Sprintf("get assignment by booking %d", bookingID))
	}
	return a, nil
}

// GetAssignment returns an assignment by id, locking it.
func (r *TxRepo) GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.tx.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrapLock(err, fmt.Sprintf("get assignment %d", id))
	}
	return a, nil
}

// GetStaff returns a staff member by id.
func (r *TxRepo) GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error) {
	var (
		s      domain.StaffMember
		status string
	)
	err := r.tx.QueryRow(ctx, `
        SELECT id, name, email, phone, status
        FROM staff
        WHERE id = $1
    `, id).Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &status)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff %d: %w", id, err)
	}
	s.Status = domain.StaffStatus(status)
	return &s, nil
}

// GetTeam returns a team by id.
func (r *TxRepo) GetTeam(ctx context.Context, id int64) (*domain.Team, error) {
	var (
		t      domain.Team
		status string
	)
	err := r.tx.QueryRow(ctx, `SELECT id, name, status FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &status)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team %d: %w", id, err)
	}
	t.Status = domain.TeamStatus(status)
	return &t, nil
}

// ListTeamMembers returns the members of a team ordered by staff id.
func (r *TxRepo) ListTeamMembers(ctx context.Context, teamID int64) ([]domain.TeamMember, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT team_id, staff_id, role
        FROM team_members
        WHERE team_id = $1
        ORDER BY staff_id
    `, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members %d: %w", teamID, err)
	}
	defer rows.Close()

	var out []domain.TeamMember
	for rows.Next() {
		var (
			m    domain.TeamMember
			role string
		)
		if err := rows.Scan(&m.TeamID, &m.StaffID, &role); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		m.Role = domain.TeamRole(role)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team members %d: %w", teamID, err)
	}
	return out, nil
}

// ListStatusHistory returns the audit trail of an assignment, oldest first.
func (r *TxRepo) ListStatusHistory(ctx context.Context, assignmentID int64) ([]domain.StatusHistoryEntry, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT id, assignment_id, old_status, new_status, changed_by, reason, created_at
        FROM assignment_status_history
        WHERE assignment_id = $1
        ORDER BY id
    `, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list status history %d: %w", assignmentID, err)
	}
	defer rows.Close()

	var out []domain.StatusHistoryEntry
	for rows.Next() {
		var (
			e        domain.StatusHistoryEntry
			old, new string
		)
		if err := rows.Scan(&e.ID, &e.AssignmentID, &old, &new, &e.ChangedBy, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		e.OldStatus = domain.AssignmentStatus(old)
		e.NewStatus = domain.AssignmentStatus(new)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list status history %d: %w", assignmentID, err)
	}
	return out, nil
}

// InsertAssignment inserts a new assignment and fills its id and updated_at.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO assignments (
            booking_id, staff_id, team_id, assigned_by, assignment_type, status, priority,
            customer_notes, admin_notes, staff_notes, assigned_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, updated_at
    `, a.BookingID, a.StaffID, a.TeamID, a.AssignedBy, string(a.Kind), string(a.Status), string(a.Priority),
		a.Notes.Customer, a.Notes.Admin, a.Notes.Staff, a.AssignedAt).Scan(&a.ID, &a.UpdatedAt)
	if err != nil {
		switch {
		case IsDuplicate(err):
			return apperr.ErrBookingAlreadyAssigned
		case IsCheckViolation(err):
			return fmt.Errorf("insert assignment: %w", domain.ErrStaffXorTeam)
		}
		return wrapLock(err, "insert assignment")
	}
	return nil
}

func optString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// UpdateAssignment applies the set fields of patch.
func (r *TxRepo) UpdateAssignment(ctx context.Context, id int64, p domain.AssignmentPatch) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE assignments
        SET status           = COALESCE($2::text, status),
            accepted_at      = COALESCE($3::timestamptz, accepted_at),
            started_at       = COALESCE($4::timestamptz, started_at),
            completed_at     = COALESCE($5::timestamptz, completed_at),
            rejected_at      = COALESCE($6::timestamptz, rejected_at),
            rejection_reason = COALESCE($7::text, rejection_reason),
            customer_notes   = COALESCE($8::text, customer_notes),
            admin_notes      = COALESCE($9::text, admin_notes),
            staff_notes      = COALESCE($10::text, staff_notes),
            updated_at       = now()
        WHERE id = $1
    `, id, optString(p.Status), p.AcceptedAt, p.StartedAt, p.CompletedAt, p.RejectedAt,
		p.RejectionReason, p.Notes.Customer, p.Notes.Admin, p.Notes.Staff)
	if err != nil {
		return wrapLock(err, fmt.Sprintf("update assignment %d", id))
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrAssignmentNotFound
	}
	return nil
}

// UpdateBookingStatus sets the booking status.
func (r *TxRepo) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE bookings
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		return wrapLock(err, fmt.Sprintf("update booking status %d", id))
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrBookingNotFound
	}
	return nil
}

// InsertStatusHistory appends an audit record.
func (r *TxRepo) InsertStatusHistory(ctx context.Context, e *domain.StatusHistoryEntry) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO assignment_status_history (assignment_id, old_status, new_status, changed_by, reason, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, e.AssignmentID, string(e.OldStatus), string(e.NewStatus), e.ChangedBy, e.Reason, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment. History rows are kept.
func (r *TxRepo) DeleteAssignment(ctx context.Context, id int64) error {
	ct, err := r.tx.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return wrapLock(err, fmt.Sprintf("delete assignment %d", id))
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrAssignmentNotFound
	}
	return nil
}

func wrapLock(err error, op string) error {
	if IsLockTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrLockTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
