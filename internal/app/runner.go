package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/notify"
)

const (
	shutdownTimeout = 15 * time.Second
	drainTimeout    = 5 * time.Second
)

// Runner runs the HTTP service
type Runner struct {
	runFn  func(*dig.Container) error
	fatalf func(string, ...interface{})
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run, fatalf: log.Fatalf}
}

// MustRun starts the HTTP server using the provided DI container and blocks
// until the container context is cancelled.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		r.fatalf("run error: %v", err)
	}
}

func containerLogger(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type serviceDeps struct {
	dig.In

	Ctx         context.Context
	Server      *http.Server
	Logger      logx.Logger
	Dispatcher  *notify.AsyncDispatcher
	CloseSender senderCloser
	Pool        *pgxpool.Pool `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

func serve(d serviceDeps) error {
	errCh := startServer(d.Server, d.Logger)

	var runErr error
	select {
	case <-d.Ctx.Done():
		d.Logger.Info("shutting down service-booking")
		runErr = d.Ctx.Err()
	case err := <-errCh:
		runErr = fmt.Errorf("listen: %w", err)
	}

	gracefulShutdown(d.Server, d.Logger, shutdownTimeout)
	drainNotifications(d.Dispatcher, d.Logger, drainTimeout)
	closeResources(d)
	return runErr
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("service-booking listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

// drainNotifications waits for queued notifications after the server stopped
// accepting requests, so no new events can arrive.
func drainNotifications(d *notify.AsyncDispatcher, logger logx.Logger, timeout time.Duration) {
	if d == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		logger.Warn("notification queue not drained", logx.Err(err))
	}
}

func closeResources(d serviceDeps) {
	if err := d.Server.Close(); err != nil {
		d.Logger.Error("server close error", logx.Err(err))
	}
	if d.CloseSender != nil {
		if err := d.CloseSender(); err != nil {
			d.Logger.Error("notification sender close error", logx.Err(err))
		}
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	_ = d.Logger.Sync()
}
