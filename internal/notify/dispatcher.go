package notify

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/logx"
)

// DispatcherConfig sizes the hand-off queue and the delivery pool.
type DispatcherConfig struct {
	QueueSize      int
	Workers        int
	DeliverTimeout time.Duration
}

// AsyncDispatcher queues events on a bounded channel and delivers them from a
// fixed pool of goroutines. Send never waits for delivery.
type AsyncDispatcher struct {
	sender    Sender
	logger    logx.Logger
	delivered *prometheus.CounterVec
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan domain.NotificationEvent

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewAsyncDispatcher starts cfg.Workers delivery goroutines. delivered may be nil.
func NewAsyncDispatcher(sender Sender, logger logx.Logger, cfg DispatcherConfig, delivered *prometheus.CounterVec) *AsyncDispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.DeliverTimeout <= 0 {
		cfg.DeliverTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}

	base, stop := context.WithCancel(context.Background())
	d := &AsyncDispatcher{
		sender:    sender,
		logger:    logger,
		delivered: delivered,
		timeout:   cfg.DeliverTimeout,
		queue:     make(chan domain.NotificationEvent, cfg.QueueSize),
		base:      base,
		stop:      stop,
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Send enqueues event. Delivery is detached from ctx so that it survives the
// request that produced the event.
func (d *AsyncDispatcher) Send(_ context.Context, event domain.NotificationEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
// When ctx expires first, in-flight deliveries are cancelled and ctx.Err()
// is returned.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.stop()
		return nil
	case <-ctx.Done():
		d.stop()
		<-done
		return ctx.Err()
	}
}

func (d *AsyncDispatcher) work() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *AsyncDispatcher) deliver(ev domain.NotificationEvent) {
	if d.base.Err() != nil {
		d.observe("dropped")
		d.logger.Warn("notification dropped on shutdown",
			logx.Int64("assignment_id", ev.AssignmentID),
			logx.Int64("staff_id", ev.StaffID),
		)
		return
	}

	ctx, cancel := context.WithTimeout(d.base, d.timeout)
	defer cancel()

	if err := d.sender.Deliver(ctx, ev); err != nil {
		d.observe("failed")
		d.logger.Error("notification delivery failed",
			logx.Int64("assignment_id", ev.AssignmentID),
			logx.Int64("booking_id", ev.BookingID),
			logx.Int64("staff_id", ev.StaffID),
			logx.String("kind", string(ev.Kind)),
			logx.Err(err),
		)
		return
	}
	d.observe("delivered")
}

func (d *AsyncDispatcher) observe(outcome string) {
	if d.delivered != nil {
		d.delivered.WithLabelValues(outcome).Inc()
	}
}
