package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/transport/kafka"
)

// RetryConfig describes the behaviour of RetryingSender
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingSender retries failed deliveries with capped exponential backoff.
// Permanent errors are returned immediately.
type RetryingSender struct {
	next    Sender
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingSender wraps next. It returns nil when next is nil.
func NewRetryingSender(next Sender, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingSender {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingSender{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Deliver implements Sender.
func (s *RetryingSender) Deliver(ctx context.Context, ev domain.NotificationEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err := s.next.Deliver(ctx, ev)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == s.cfg.MaxAttempts || kafka.IsPermanent(err) {
			break
		}

		delay := backoff(s.cfg.BaseDelay, s.cfg.MaxDelay, attempt)
		if s.retries != nil {
			s.retries.Inc()
		}
		s.logger.Warn("notification delivery retry",
			logx.Int64("assignment_id", ev.AssignmentID),
			logx.Int64("staff_id", ev.StaffID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

// backoff computes the delay before the next attempt
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
