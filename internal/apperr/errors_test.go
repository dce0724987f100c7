package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"service-cleaning-booking/internal/apperr"
)

func TestNamedErrorsUnwrapToCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		kind error
	}{
		{apperr.ErrBookingNotFound, apperr.ErrNotFound},
		{apperr.ErrAssignmentNotFound, apperr.ErrNotFound},
		{apperr.ErrStaffNotFound, apperr.ErrNotFound},
		{apperr.ErrTeamNotFound, apperr.ErrNotFound},
		{apperr.ErrBookingAlreadyAssigned, apperr.ErrConflict},
		{apperr.ErrInvalidTransition, apperr.ErrConflict},
		{apperr.ErrStaffInactive, apperr.ErrUnprocessable},
		{apperr.ErrTeamInactive, apperr.ErrUnprocessable},
		{apperr.ErrInvalidAssignmentType, apperr.ErrInvalid},
		{apperr.ErrInvalidStatus, apperr.ErrInvalid},
		{apperr.ErrReasonRequired, apperr.ErrInvalid},
		{apperr.ErrInvalidPriority, apperr.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("create: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
			require.ErrorIs(t, wrapped, tt.kind)
			require.NotEmpty(t, apperr.Code(wrapped))
		})
	}
}

func TestCode_PlainError(t *testing.T) {
	t.Parallel()

	require.Empty(t, apperr.Code(errors.New("boom")))
	require.Empty(t, apperr.Code(nil))
	require.Equal(t, "invalid_transition", apperr.Code(apperr.ErrInvalidTransition))
}
