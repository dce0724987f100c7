package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/lifecycle"
)

// allowed mirrors the published transition table; every state must be listed
// here so that adding a state without updating the machine breaks the test.
var allowed = map[domain.AssignmentStatus][]domain.AssignmentStatus{
	domain.StatusAssigned:   {domain.StatusAccepted, domain.StatusRejected, domain.StatusCancelled},
	domain.StatusAccepted:   {domain.StatusInProgress, domain.StatusCancelled},
	domain.StatusInProgress: {domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusCompleted:  nil,
	domain.StatusCancelled:  nil,
	domain.StatusRejected:   {domain.StatusAssigned},
}

func TestAllowedSuccessors_CoversEveryState(t *testing.T) {
	t.Parallel()

	states := lifecycle.AllStatuses()
	require.Len(t, allowed, len(states))

	for _, s := range states {
		want, ok := allowed[s]
		require.Truef(t, ok, "state %s missing from table", s)
		require.ElementsMatch(t, want, lifecycle.AllowedSuccessors(s), "state %s", s)
	}
}

func TestCanTransition_Exhaustive(t *testing.T) {
	t.Parallel()

	for _, from := range domain.AssignmentStatuses() {
		for _, to := range domain.AssignmentStatuses() {
			want := from == to
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			require.Equalf(t, want, lifecycle.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStates(t *testing.T) {
	t.Parallel()

	require.False(t, lifecycle.CanTransition("bogus", "bogus"))
	require.False(t, lifecycle.CanTransition(domain.StatusAssigned, "bogus"))
	require.False(t, lifecycle.CanTransition("bogus", domain.StatusAssigned))
	require.Empty(t, lifecycle.AllowedSuccessors("bogus"))
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, lifecycle.IsTerminal(domain.StatusCompleted))
	require.True(t, lifecycle.IsTerminal(domain.StatusCancelled))
	require.False(t, lifecycle.IsTerminal(domain.StatusRejected))
	require.False(t, lifecycle.IsTerminal("bogus"))
}

func TestBookingStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   domain.AssignmentStatus
		want domain.BookingStatus
	}{
		{domain.StatusAssigned, domain.BookingAssigned},
		{domain.StatusAccepted, domain.BookingAssigned},
		{domain.StatusInProgress, domain.BookingInProgress},
		{domain.StatusCompleted, domain.BookingCompleted},
		{domain.StatusCancelled, domain.BookingCancelled},
		{domain.StatusRejected, domain.BookingCancelled},
	}
	require.Len(t, tests, len(domain.AssignmentStatuses()))

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := lifecycle.BookingStatusFor(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := lifecycle.BookingStatusFor("bogus")
	require.Error(t, err)
}

func TestPlan_EdgeTimestamps(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		from  domain.AssignmentStatus
		to    domain.AssignmentStatus
		check func(t *testing.T, p domain.AssignmentPatch)
	}{
		{
			name: "accept sets accepted_at",
			from: domain.StatusAssigned, to: domain.StatusAccepted,
			check: func(t *testing.T, p domain.AssignmentPatch) {
				require.NotNil(t, p.AcceptedAt)
				require.Equal(t, now, *p.AcceptedAt)
				require.Nil(t, p.StartedAt)
			},
		},
		{
			name: "start sets started_at",
			from: domain.StatusAccepted, to: domain.StatusInProgress,
			check: func(t *testing.T, p domain.AssignmentPatch) {
				require.NotNil(t, p.StartedAt)
				require.Nil(t, p.AcceptedAt)
			},
		},
		{
			name: "complete sets completed_at",
			from: domain.StatusInProgress, to: domain.StatusCompleted,
			check: func(t *testing.T, p domain.AssignmentPatch) {
				require.NotNil(t, p.CompletedAt)
			},
		},
		{
			name: "reject sets rejected_at and reason",
			from: domain.StatusAssigned, to: domain.StatusRejected,
			check: func(t *testing.T, p domain.AssignmentPatch) {
				require.NotNil(t, p.RejectedAt)
				require.NotNil(t, p.RejectionReason)
				require.Equal(t, "schedule conflict", *p.RejectionReason)
			},
		},
		{
			name: "cancel sets no timestamp",
			from: domain.StatusAccepted, to: domain.StatusCancelled,
			check: func(t *testing.T, p domain.AssignmentPatch) {
				require.Nil(t, p.AcceptedAt)
				require.Nil(t, p.StartedAt)
				require.Nil(t, p.CompletedAt)
				require.Nil(t, p.RejectedAt)
				require.Nil(t, p.RejectionReason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := lifecycle.Plan(domain.Assignment{Status: tt.from}, tt.to, "schedule conflict", now)
			require.NoError(t, err)
			require.False(t, tr.NoOp)
			require.NotNil(t, tr.Patch.Status)
			require.Equal(t, tt.to, *tr.Patch.Status)
			tt.check(t, tr.Patch)
		})
	}
}

func TestPlan_DoesNotOverwriteTimestamps(t *testing.T) {
	t.Parallel()

	earlier := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := domain.Assignment{Status: domain.StatusAssigned, RejectedAt: &earlier}

	tr, err := lifecycle.Plan(a, domain.StatusRejected, "again", time.Now())
	require.NoError(t, err)
	require.Nil(t, tr.Patch.RejectedAt)
	require.Nil(t, tr.Patch.RejectionReason, "reason stays with the first rejection")
	require.NotNil(t, tr.Patch.Status)
}

func TestPlan_NoOpAndReoffer(t *testing.T) {
	t.Parallel()

	tr, err := lifecycle.Plan(domain.Assignment{Status: domain.StatusAccepted}, domain.StatusAccepted, "", time.Now())
	require.NoError(t, err)
	require.True(t, tr.NoOp)
	require.Nil(t, tr.Patch.Status)
	require.Equal(t, domain.BookingAssigned, tr.BookingStatus)

	tr, err = lifecycle.Plan(domain.Assignment{Status: domain.StatusRejected}, domain.StatusAssigned, "", time.Now())
	require.NoError(t, err)
	require.True(t, tr.Reoffer)
	require.Equal(t, domain.BookingAssigned, tr.BookingStatus)
}

func TestPlan_Illegal(t *testing.T) {
	t.Parallel()

	_, err := lifecycle.Plan(domain.Assignment{Status: domain.StatusAccepted}, domain.StatusCompleted, "", time.Now())
	var illegal lifecycle.ErrIllegalTransition
	require.True(t, errors.As(err, &illegal))
	require.Equal(t, domain.StatusAccepted, illegal.From)
	require.Equal(t, domain.StatusCompleted, illegal.To)
}
