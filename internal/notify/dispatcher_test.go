package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/metrics"
	"service-cleaning-booking/internal/notify"
	testlog "service-cleaning-booking/internal/testutil"
)

func event(staffID int64) domain.NotificationEvent {
	return domain.NotificationEvent{
		AssignmentID: 1,
		BookingID:    42,
		StaffID:      staffID,
		Kind:         domain.NotifyNewAssignment,
		Status:       domain.StatusAssigned,
	}
}

func TestAsyncDispatcher_DeliversAndDrains(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	var (
		mu   sync.Mutex
		seen []int64
	)
	sender := NewMockSender(ctrl)
	sender.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(5).DoAndReturn(
		func(_ context.Context, ev domain.NotificationEvent) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, ev.StaffID)
			return nil
		})

	delivered := metrics.NewNotificationsDeliveredTotal()
	d := notify.NewAsyncDispatcher(sender, testlog.New().Logger(),
		notify.DispatcherConfig{QueueSize: 10, Workers: 3}, delivered)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, d.Send(context.Background(), event(i)))
	}
	require.NoError(t, d.Close(context.Background()))

	require.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, seen)
	require.Equal(t, float64(5), testutil.ToFloat64(delivered.WithLabelValues("delivered")))
}

func TestAsyncDispatcher_SendDoesNotBlockWhenFull(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	sender := NewMockSender(ctrl)
	sender.EXPECT().Deliver(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(
		func(context.Context, domain.NotificationEvent) error {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			return nil
		})

	d := notify.NewAsyncDispatcher(sender, nil, notify.DispatcherConfig{QueueSize: 1, Workers: 1}, nil)

	require.NoError(t, d.Send(context.Background(), event(1)))
	<-started
	require.NoError(t, d.Send(context.Background(), event(2)))

	done := make(chan error, 1)
	go func() { done <- d.Send(context.Background(), event(3)) }()
	select {
	case err := <-done:
		require.ErrorIs(t, err, notify.ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full queue")
	}

	close(release)
	require.NoError(t, d.Close(context.Background()))
}

func TestAsyncDispatcher_FailuresAreLoggedNotReturned(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	sender := NewMockSender(ctrl)
	sender.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	rec := testlog.New()
	delivered := metrics.NewNotificationsDeliveredTotal()
	d := notify.NewAsyncDispatcher(sender, rec.Logger(), notify.DispatcherConfig{}, delivered)

	require.NoError(t, d.Send(context.Background(), event(1)))
	require.NoError(t, d.Close(context.Background()))

	require.True(t, rec.Has("error", "notification delivery failed"))
	require.Equal(t, float64(1), testutil.ToFloat64(delivered.WithLabelValues("failed")))
}

func TestAsyncDispatcher_SendAfterClose(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	d := notify.NewAsyncDispatcher(NewMockSender(ctrl), nil, notify.DispatcherConfig{}, nil)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))
	require.ErrorIs(t, d.Send(context.Background(), event(1)), notify.ErrClosed)
}

func TestAsyncDispatcher_CloseDeadlineCancelsDelivery(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	started := make(chan struct{})
	sender := NewMockSender(ctrl)
	sender.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.NotificationEvent) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})

	rec := testlog.New()
	d := notify.NewAsyncDispatcher(sender, rec.Logger(),
		notify.DispatcherConfig{QueueSize: 4, Workers: 1, DeliverTimeout: time.Minute}, nil)

	require.NoError(t, d.Send(context.Background(), event(1)))
	require.NoError(t, d.Send(context.Background(), event(2)))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
	require.True(t, rec.Has("warn", "notification dropped on shutdown"))
}
