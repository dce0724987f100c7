package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/notify"
	testlog "service-cleaning-booking/internal/testutil"
)

type blockingSender struct{}

func (blockingSender) Deliver(ctx context.Context, _ domain.NotificationEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

func newDeps(ctx context.Context, logger logx.Logger, addr string) (serviceDeps, *bool) {
	closed := false
	return serviceDeps{
		Ctx:        ctx,
		Server:     &http.Server{Addr: addr, Handler: http.NewServeMux()},
		Logger:     logger,
		Dispatcher: notify.NewAsyncDispatcher(notify.NewLogSender(logger), logger, notify.DispatcherConfig{}, nil),
		CloseSender: func() error {
			closed = true
			return nil
		},
	}, &closed
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rec := testlog.New()
	deps, closed := newDeps(ctx, rec.Logger(), "127.0.0.1:0")

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := serve(deps)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, *closed)
	require.True(t, rec.Has("info", "shutting down service-booking"))
	require.ErrorIs(t, deps.Dispatcher.Send(context.Background(), domain.NotificationEvent{StaffID: 1}), notify.ErrClosed)
}

func TestServe_ReturnsListenError(t *testing.T) {
	t.Parallel()

	deps, closed := newDeps(context.Background(), logx.Nop(), "127.0.0.1:-1")

	err := serve(deps)
	require.Error(t, err)
	require.Contains(t, err.Error(), "listen")
	require.True(t, *closed)
}

func TestDrainNotifications_LogsWhenQueueNotDrained(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	d := notify.NewAsyncDispatcher(blockingSender{}, logx.Nop(), notify.DispatcherConfig{QueueSize: 1, Workers: 1}, nil)
	require.NoError(t, d.Send(context.Background(), domain.NotificationEvent{StaffID: 1, Kind: domain.NotifyNewAssignment}))

	drainNotifications(d, rec.Logger(), 20*time.Millisecond)

	require.True(t, rec.Has("warn", "notification queue not drained"))
}

func TestDrainNotifications_NilDispatcher(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() { drainNotifications(nil, logx.Nop(), time.Millisecond) })
}

func TestGracefulShutdown_DoesNotPanic(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	require.NotPanics(t, func() {
		gracefulShutdown(srv, logx.Nop(), 100*time.Millisecond)
	})
}

func loggerContainer(t *testing.T, rec *testlog.Recorder) *dig.Container {
	t.Helper()
	c := dig.New()
	require.NoError(t, c.Provide(func() logx.Logger { return rec.Logger() }))
	return c
}

func TestRunner_MustRun_ShutdownRequested(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return context.Canceled }}

	r.MustRun(loggerContainer(t, rec))
	require.True(t, rec.Has("info", "shutdown requested, exiting"))
}

func TestRunner_MustRun_StartupTimeout(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return context.DeadlineExceeded }}

	r.MustRun(loggerContainer(t, rec))
	require.True(t, rec.Has("warn", "startup aborted: startup timeout exceeded"))
}

func TestRunner_MustRun_FatalOnOtherError(t *testing.T) {
	t.Parallel()

	var msg string
	r := &Runner{
		runFn:  func(*dig.Container) error { return errors.New("boom") },
		fatalf: func(format string, args ...interface{}) { msg = fmt.Sprintf(format, args...) },
	}

	r.MustRun(dig.New())
	require.Equal(t, "run error: boom", msg)
}

func TestNewRunner_DefaultFields(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	require.NotNil(t, r)
	require.NotNil(t, r.fatalf)
	require.Equal(t, fmt.Sprintf("%p", run), fmt.Sprintf("%p", r.runFn))
}

func TestRun_InvokesServeViaContainer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := memoryBuilder(testConfig("memory")).build(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Decorate(func(srv *http.Server) *http.Server {
		srv.Addr = "127.0.0.1:0"
		return srv
	}))

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err = run(c)
	require.ErrorIs(t, err, context.Canceled)
}
