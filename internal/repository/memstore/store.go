// Package memstore is an in-process implementation of the assignment storage
// ports. Transactions are serialised by a single mutex and work on a copy of
// the state that replaces the committed state only when fn succeeds.
package memstore

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"service-cleaning-booking/internal/apperr"
	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/ports/assignmenttx"
)

type state struct {
	bookings    map[int64]domain.Booking
	staff       map[int64]domain.StaffMember
	teams       map[int64]domain.Team
	members     map[int64][]domain.TeamMember
	assignments map[int64]domain.Assignment
	byBooking   map[int64]int64
	history     []domain.StatusHistoryEntry

	nextAssignmentID int64
	nextHistoryID    int64
}

func newState() *state {
	return &state{
		bookings:    make(map[int64]domain.Booking),
		staff:       make(map[int64]domain.StaffMember),
		teams:       make(map[int64]domain.Team),
		members:     make(map[int64][]domain.TeamMember),
		assignments: make(map[int64]domain.Assignment),
		byBooking:   make(map[int64]int64),
	}
}

// clone copies everything a transaction may mutate. Staff, teams and members
// are read-only inside transactions and shared.
func (s *state) clone() *state {
	c := *s
	c.bookings = maps.Clone(s.bookings)
	c.assignments = maps.Clone(s.assignments)
	c.byBooking = maps.Clone(s.byBooking)
	c.history = slices.Clone(s.history)
	return &c
}

// Store keeps bookings, staff, teams and assignments in memory.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

var _ assignmenttx.Runner = (*Store)(nil)

// WithTx runs fn against a private copy of the state and publishes the copy
// when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx assignmenttx.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&txRepo{st: work, now: s.now}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// PutBooking inserts or replaces a booking.
func (s *Store) PutBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Status == "" {
		b.Status = domain.BookingPending
	}
	s.st.bookings[b.ID] = b
}

// PutStaff inserts or replaces a staff member.
func (s *Store) PutStaff(m domain.StaffMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.staff[m.ID] = m
}

// PutTeam inserts or replaces a team.
func (s *Store) PutTeam(t domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.teams[t.ID] = t
}

// AddTeamMember links a staff member to a team.
func (s *Store) AddTeamMember(m domain.TeamMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.members[m.TeamID] = append(s.st.members[m.TeamID], m)
}

// Booking returns a committed booking snapshot.
func (s *Store) Booking(id int64) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

// AssignmentCount returns the number of committed assignments.
func (s *Store) AssignmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.assignments)
}

type txRepo struct {
	st  *state
	now func() time.Time
}

func (r *txRepo) GetBooking(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *txRepo) GetAssignmentByBooking(ctx context.Context, bookingID int64) (*domain.Assignment, error) {
	id, ok := r.st.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	return r.GetAssignment(ctx, id)
}

func (r *txRepo) GetAssignment(_ context.Context, id int64) (*domain.Assignment, error) {
	a, ok := r.st.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *txRepo) GetStaff(_ context.Context, id int64) (*domain.StaffMember, error) {
	m, ok := r.st.staff[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *txRepo) GetTeam(_ context.Context, id int64) (*domain.Team, error) {
	t, ok := r.st.teams[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *txRepo) ListTeamMembers(_ context.Context, teamID int64) ([]domain.TeamMember, error) {
	out := slices.Clone(r.st.members[teamID])
	slices.SortFunc(out, func(a, b domain.TeamMember) int {
		return cmp.Compare(a.StaffID, b.StaffID)
	})
	return out, nil
}

func (r *txRepo) ListStatusHistory(_ context.Context, assignmentID int64) ([]domain.StatusHistoryEntry, error) {
	var out []domain.StatusHistoryEntry
	for _, e := range r.st.history {
		if e.AssignmentID == assignmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *txRepo) InsertAssignment(_ context.Context, a *domain.Assignment) error {
	if _, taken := r.st.byBooking[a.BookingID]; taken {
		return apperr.ErrBookingAlreadyAssigned
	}
	if err := a.Validate(); err != nil {
		return err
	}
	r.st.nextAssignmentID++
	a.ID = r.st.nextAssignmentID
	a.UpdatedAt = r.now()
	r.st.assignments[a.ID] = *a
	r.st.byBooking[a.BookingID] = a.ID
	return nil
}

func (r *txRepo) UpdateAssignment(_ context.Context, id int64, patch domain.AssignmentPatch) error {
	a, ok := r.st.assignments[id]
	if !ok {
		return apperr.ErrAssignmentNotFound
	}
	patch.Apply(&a)
	a.UpdatedAt = r.now()
	r.st.assignments[id] = a
	return nil
}

func (r *txRepo) UpdateBookingStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := r.st.bookings[id]
	if !ok {
		return apperr.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = r.now()
	r.st.bookings[id] = b
	return nil
}

func (r *txRepo) InsertStatusHistory(_ context.Context, e *domain.StatusHistoryEntry) error {
	r.st.nextHistoryID++
	e.ID = r.st.nextHistoryID
	r.st.history = append(r.st.history, *e)
	return nil
}

func (r *txRepo) DeleteAssignment(_ context.Context, id int64) error {
	a, ok := r.st.assignments[id]
	if !ok {
		return apperr.ErrAssignmentNotFound
	}
	delete(r.st.assignments, id)
	delete(r.st.byBooking, a.BookingID)
	return nil
}
