package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"service-cleaning-booking/internal/apperr"
)

// rollbackTx is a pgx.Tx whose Rollback returns a fixed error. Calling any
// other method panics.
type rollbackTx struct {
	pgx.Tx
	err   error
	calls int
}

func (tx *rollbackTx) Rollback(context.Context) error {
	tx.calls++
	return tx.err
}

func TestRollback(t *testing.T) {
	t.Parallel()

	connLost := errors.New("conn lost")

	tests := []struct {
		name    string
		rbErr   error
		wantIs  []error
		wantMsg string
	}{
		{
			name:    "clean rollback returns cause",
			wantIs:  []error{apperr.ErrBookingAlreadyAssigned},
			wantMsg: apperr.ErrBookingAlreadyAssigned.Error(),
		},
		{
			name:    "failed rollback keeps cause matchable",
			rbErr:   connLost,
			wantIs:  []error{apperr.ErrBookingAlreadyAssigned, connLost},
			wantMsg: "rollback tx: conn lost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tx := &rollbackTx{err: tt.rbErr}

			got := rollback(context.Background(), tx, apperr.ErrBookingAlreadyAssigned)

			require.Equal(t, 1, tx.calls)
			for _, want := range tt.wantIs {
				require.ErrorIs(t, got, want)
			}
			require.Contains(t, got.Error(), tt.wantMsg)
		})
	}
}
